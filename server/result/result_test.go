package result

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		result       Result
		method       string
		expectStatus int
		expectBody   string
		expectHeader map[string]string
	}{
		{
			name:         "json OK",
			result:       OK(map[string]int{"value": 8}),
			method:       http.MethodGet,
			expectStatus: http.StatusOK,
			expectBody:   `{"value":8}`,
			expectHeader: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "HEAD has no body",
			result:       OK(map[string]int{"value": 8}),
			method:       http.MethodHead,
			expectStatus: http.StatusOK,
			expectBody:   "",
		},
		{
			name:         "no content",
			result:       NoContent(),
			method:       http.MethodDelete,
			expectStatus: http.StatusNoContent,
			expectBody:   "",
		},
		{
			name:         "unauthorized sets realm",
			result:       Unauthorized(""),
			method:       http.MethodGet,
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectHeader: map[string]string{"WWW-Authenticate": `Basic realm="TunaCalc server", charset="utf-8"`},
		},
		{
			name:         "text error",
			result:       TextErr(http.StatusInternalServerError, "oops", "panic: %s", "x"),
			method:       http.MethodGet,
			expectStatus: http.StatusInternalServerError,
			expectBody:   "oops",
			expectHeader: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
		{
			name:         "redirect with extra header",
			result:       Redirection("/api/v1/info").WithHeader("X-Test", "yes"),
			method:       http.MethodGet,
			expectStatus: http.StatusPermanentRedirect,
			expectHeader: map[string]string{"Location": "/api/v1/info", "X-Test": "yes"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest(tc.method, "/", nil)
			w := httptest.NewRecorder()

			tc.result.WriteResponse(w, req)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_Result_WithHeader_doesNotAlias(t *testing.T) {
	assert := assert.New(t)
	base := OK("x").WithHeader("A", "1")

	first := base.WithHeader("B", "2")
	second := base.WithHeader("C", "3")

	assert.Len(first.hdrs, 2)
	assert.Len(second.hdrs, 2)
	assert.Equal("B", first.hdrs[1][0])
	assert.Equal("C", second.hdrs[1][0])
}

func Test_internal(t *testing.T) {
	testCases := []struct {
		name   string
		msg    []any
		expect string
	}{
		{name: "default", msg: nil, expect: "fallback"},
		{name: "format and args", msg: []any{"user '%s' did %d things", "a", 2}, expect: "user 'a' did 2 things"},
		{name: "lone message is not a format", msg: []any{"100% done"}, expect: "100% done"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, internal("fallback", tc.msg))
		})
	}
}

func Test_Describe(t *testing.T) {
	calcErr := func(expr string) error {
		_, err := tunacalc.New().Evaluate(expr, nil)
		if err == nil {
			panic("expected " + expr + " to fail")
		}
		return serr.Evaluation(err)
	}

	testCases := []struct {
		name   string
		err    error
		expect EvalDetail
	}{
		{name: "syntax", err: calcErr("1 + $"), expect: EvalDetail{Kind: KindSyntax, Line: 1, Position: 5}},
		{name: "unbound", err: calcErr("a + b"), expect: EvalDetail{Kind: KindUnbound, Names: []string{"a", "b"}}},
		{name: "divide by zero", err: calcErr("1 / 0"), expect: EvalDetail{Kind: KindDivideByZero}},
		{name: "unknown function", err: calcErr("nope(1)"), expect: EvalDetail{Kind: KindUnknownFunction}},
		{name: "other", err: errors.New("bad"), expect: EvalDetail{Kind: KindOther}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Describe(tc.err)

			assert.Equal(tc.expect, *actual)
		})
	}
}

func Test_Describe_irreducible(t *testing.T) {
	assert := assert.New(t)
	_, err := tunacalc.New().Evaluate(`"a" + 1`, nil)
	if !assert.Error(err) {
		return
	}

	actual := Describe(err)

	assert.Equal(KindIrreducible, actual.Kind)
	assert.Equal(`"a" + 1`, actual.Residual)
}

func Test_Unevaluable(t *testing.T) {
	assert := assert.New(t)
	_, calcErr := tunacalc.New().Evaluate("x * 2", nil)
	if !assert.Error(calcErr) {
		return
	}

	r := Unevaluable(serr.Evaluation(calcErr), "evaluating")
	w := httptest.NewRecorder()
	r.WriteResponse(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Equal("evaluating", r.InternalMsg)

	var body ErrorResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &body)) {
		return
	}
	assert.Equal(calcErr.Error(), body.Error)
	assert.Equal(http.StatusBadRequest, body.Status)
	if assert.NotNil(body.Detail) {
		assert.Equal(KindUnbound, body.Detail.Kind)
		assert.Equal([]string{"x"}, body.Detail.Names)
	}
}
