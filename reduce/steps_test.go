package reduce

import (
	"math"
	"testing"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_Engine_evaluate(t *testing.T) {
	testCases := []struct {
		name      string
		step      Step
		span      []syntax.Token
		expect    []syntax.Token
		expectErr error
	}{
		{
			name:   "apply",
			step:   StepApply,
			span:   []syntax.Token{n("2"), op(syntax.OpMultiply), n("4")},
			expect: []syntax.Token{n("8")},
		},
		{
			name:      "apply with non-operator",
			step:      StepApply,
			span:      []syntax.Token{n("2"), n("3"), n("4")},
			expectErr: ErrMalformedSpan,
		},
		{
			name:   "negate",
			step:   StepNegate,
			span:   []syntax.Token{op(syntax.OpSubtract), n("3.5")},
			expect: []syntax.Token{n("-3.5")},
		},
		{
			name:      "negate a string",
			step:      StepNegate,
			span:      []syntax.Token{op(syntax.OpSubtract), syntax.Str("3")},
			expectErr: syntax.ErrTypeMismatch,
		},
		{
			name:   "pow negate",
			step:   StepPowNegate,
			span:   []syntax.Token{n("2"), op(syntax.OpPow), op(syntax.OpSubtract), n("2")},
			expect: []syntax.Token{n("0.25")},
		},
		{
			name:   "mul negate",
			step:   StepMulNegate,
			span:   []syntax.Token{n("3"), op(syntax.OpMultiply), op(syntax.OpSubtract), n("4")},
			expect: []syntax.Token{n("-12")},
		},
		{
			name:   "mul negate with division",
			step:   StepMulNegate,
			span:   []syntax.Token{n("8"), op(syntax.OpDivide), op(syntax.OpSubtract), n("2")},
			expect: []syntax.Token{n("-4")},
		},
		{
			name:      "mul negate dividing by zero",
			step:      StepMulNegate,
			span:      []syntax.Token{n("8"), op(syntax.OpDivide), op(syntax.OpSubtract), n("0")},
			expectErr: syntax.ErrDivideByZero,
		},
		{
			name:   "percentage",
			step:   StepPercentage,
			span:   []syntax.Token{n("50"), op(syntax.OpMod)},
			expect: []syntax.Token{n("0.5")},
		},
		{
			name: "expand range",
			step: StepExpandRange,
			span: []syntax.Token{n("1"), op(syntax.OpLessThan), n("2"), op(syntax.OpLessThanEqual), n("3")},
			expect: []syntax.Token{
				n("1"), op(syntax.OpLessThan), n("2"), op(syntax.OpAnd), n("2"), op(syntax.OpLessThanEqual), n("3"),
			},
		},
		{
			name:   "if true",
			step:   StepIf,
			span:   []syntax.Token{syntax.Fn("if"), fopen(), syntax.Bool(true), comma(), n("1"), comma(), n("2"), closep()},
			expect: []syntax.Token{n("1")},
		},
		{
			name:   "if false",
			step:   StepIf,
			span:   []syntax.Token{syntax.Fn("if"), fopen(), syntax.Bool(false), comma(), n("1"), comma(), n("2"), closep()},
			expect: []syntax.Token{n("2")},
		},
		{
			name:   "if with zero condition",
			step:   StepIf,
			span:   []syntax.Token{syntax.Fn("if"), fopen(), n("0"), comma(), syntax.Str("y"), comma(), syntax.Str("n"), closep()},
			expect: []syntax.Token{syntax.Str("y")},
		},
		{
			name:   "if with empty string condition",
			step:   StepIf,
			span:   []syntax.Token{syntax.Fn("if"), fopen(), syntax.Str(""), comma(), syntax.Str("y"), comma(), syntax.Str("n"), closep()},
			expect: []syntax.Token{syntax.Str("y")},
		},
		{
			name:      "if with wrong arity",
			step:      StepIf,
			span:      []syntax.Token{syntax.Fn("if"), fopen(), syntax.Bool(false), comma(), n("1"), closep()},
			expectErr: ErrMalformedSpan,
		},
		{
			name:   "round with default places",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("8.5"), closep()},
			expect: []syntax.Token{n("9")},
		},
		{
			name:   "round to places",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("12.345"), comma(), n("2"), closep()},
			expect: []syntax.Token{n("12.35")},
		},
		{
			name:   "round below half truncates",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("12.344"), comma(), n("2"), closep()},
			expect: []syntax.Token{n("12.34")},
		},
		{
			name:   "round negative value",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("-1.26"), comma(), n("1"), closep()},
			expect: []syntax.Token{n("-1.2")},
		},
		{
			name:   "round past sixteen places",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("1.23456789012345678901"), comma(), n("20"), closep()},
			expect: []syntax.Token{n("1.23456789012345678901")},
		},
		{
			name:      "round with places past int32",
			step:      StepRound,
			span:      []syntax.Token{syntax.Fn("round"), fopen(), n("2.5"), comma(), n("4294967296"), closep()},
			expectErr: syntax.ErrDomain,
		},
		{
			name:   "round evaluates its value expression",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), n("1.25"), op(syntax.OpMultiply), n("2"), comma(), n("0"), closep()},
			expect: []syntax.Token{n("3")},
		},
		{
			name:   "round of nothing",
			step:   StepRound,
			span:   []syntax.Token{syntax.Fn("round"), fopen(), closep()},
			expect: []syntax.Token{n("0")},
		},
		{
			name:   "roundup",
			step:   StepRoundInt,
			span:   []syntax.Token{syntax.Fn("roundup"), fopen(), n("1.1"), closep()},
			expect: []syntax.Token{n("2")},
		},
		{
			name:   "rounddown",
			step:   StepRoundInt,
			span:   []syntax.Token{syntax.Fn("rounddown"), fopen(), n("1.9"), closep()},
			expect: []syntax.Token{n("1")},
		},
		{
			name:      "round_int with other name",
			step:      StepRoundInt,
			span:      []syntax.Token{syntax.Fn("sum"), fopen(), n("1.9"), closep()},
			expectErr: ErrMalformedSpan,
		},
		{
			name:   "not",
			step:   StepNot,
			span:   []syntax.Token{syntax.Fn("not"), fopen(), n("1"), op(syntax.OpLessThan), n("2"), closep()},
			expect: []syntax.Token{syntax.Bool(false)},
		},
		{
			name:   "not of zero",
			step:   StepNot,
			span:   []syntax.Token{syntax.Fn("not"), fopen(), n("0"), closep()},
			expect: []syntax.Token{syntax.Bool(false)},
		},
		{
			name:   "group",
			step:   StepGroup,
			span:   []syntax.Token{open(), n("1"), op(syntax.OpAdd), n("1"), closep()},
			expect: []syntax.Token{n("2")},
		},
		{
			name:   "empty group",
			step:   StepGroup,
			span:   []syntax.Token{open(), closep()},
			expect: []syntax.Token{n("0")},
		},
		{
			name:      "unknown step",
			step:      Step(99),
			span:      []syntax.Token{n("1")},
			expectErr: ErrMalformedSpan,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			eng := New(testTable(), stdTestOps)

			actual, err := eng.evaluate(Rule{Name: tc.name, Step: tc.step}, tc.span, 0)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			if !assert.Len(actual, len(tc.expect)) {
				return
			}
			for i := range tc.expect {
				assert.Truef(tc.expect[i].Equal(actual[i]), "token %d: expected %s, got %s", i, tc.expect[i], actual[i])
			}
		})
	}
}

func Test_Engine_call(t *testing.T) {
	assert := assert.New(t)

	var got []any
	echo := syntax.Func{
		Name:      "echo",
		Returns:   syntax.String,
		Signature: []syntax.Category{syntax.Numeric, syntax.String},
		Body: func(args ...any) (any, error) {
			got = args
			return "ok", nil
		},
	}
	eng := New(testRules{funcs: map[string]syntax.Func{"echo": echo}}, stdTestOps)

	span := []syntax.Token{syntax.Fn("echo"), fopen(), n("1"), comma(), syntax.Str("b"), closep()}
	actual, err := eng.evaluate(Rule{Step: StepCall, Func: "echo"}, span, 0)

	if !assert.NoError(err) {
		return
	}
	assert.Len(got, 2)
	assert.Equal("b", got[1])
	assert.Len(actual, 1)
	assert.True(syntax.Str("ok").Equal(actual[0]))
}

func Test_Engine_call_nonFiniteResult(t *testing.T) {
	testCases := []struct {
		name   string
		result any
	}{
		{name: "positive infinity", result: math.Inf(1)},
		{name: "negative infinity", result: float32(math.Inf(-1))},
		{name: "NaN", result: math.NaN()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			big := syntax.Func{
				Name:      "big",
				Returns:   syntax.Numeric,
				Signature: []syntax.Category{syntax.Numeric},
				Body: func(args ...any) (any, error) {
					return tc.result, nil
				},
			}
			eng := New(testRules{funcs: map[string]syntax.Func{"big": big}}, stdTestOps)

			span := []syntax.Token{syntax.Fn("big"), fopen(), n("1"), closep()}
			_, err := eng.evaluate(Rule{Step: StepCall, Func: "big"}, span, 0)

			assert.ErrorIs(err, syntax.ErrDomain)
		})
	}
}
