package result

import (
	"errors"

	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/lex"
	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/syntax"
)

// Kinds of evaluation failure reported in EvalDetail.
const (
	KindSyntax          = "syntax"
	KindUnbound         = "unbound_variable"
	KindCircular        = "circular_reference"
	KindUnknownFunction = "unknown_function"
	KindIrreducible     = "irreducible"
	KindTooDeep         = "too_deep"
	KindDivideByZero    = "divide_by_zero"
	KindDomain          = "domain"
	KindTypeMismatch    = "type_mismatch"
	KindOther           = "evaluation"
)

// EvalDetail says why the calculator rejected an expression.
type EvalDetail struct {
	Kind string `json:"kind"`

	// Line and Position locate a syntax error. Both are 1-indexed.
	Line     int `json:"line,omitempty"`
	Position int `json:"position,omitempty"`

	// Names lists the variables that had no value.
	Names []string `json:"names,omitempty"`

	// Residual is the token stream at the point no rule could reduce it.
	Residual string `json:"residual,omitempty"`
}

// Unevaluable is an HTTP-400 for an expression the calculator could not
// evaluate. The body carries err's message along with an EvalDetail built
// from it.
func Unevaluable(err error, internalMsg ...any) Result {
	r := BadRequest(err.Error(), internalMsg...)
	body := r.body.(ErrorResponse)
	body.Detail = Describe(err)
	r.body = body
	return r
}

// Describe builds the EvalDetail for an error returned by a Calculator.
func Describe(err error) *EvalDetail {
	var synErr lex.SyntaxError
	if errors.As(err, &synErr) {
		return &EvalDetail{Kind: KindSyntax, Line: synErr.Line(), Position: synErr.Position()}
	}

	var unboundErr tunacalc.UnboundVariableError
	if errors.As(err, &unboundErr) {
		return &EvalDetail{Kind: KindUnbound, Names: unboundErr.Names}
	}

	var redErr reduce.Error
	if errors.As(err, &redErr) && errors.Is(err, reduce.ErrNoRuleMatched) {
		return &EvalDetail{Kind: KindIrreducible, Residual: syntax.Stream(redErr.Residual())}
	}

	kinds := []struct {
		sentinel error
		kind     string
	}{
		{tunacalc.ErrCircularReference, KindCircular},
		{reduce.ErrUnknownFunction, KindUnknownFunction},
		{reduce.ErrTooDeep, KindTooDeep},
		{syntax.ErrDivideByZero, KindDivideByZero},
		{syntax.ErrDomain, KindDomain},
		{syntax.ErrTypeMismatch, KindTypeMismatch},
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return &EvalDetail{Kind: k.kind}
		}
	}
	return &EvalDetail{Kind: KindOther}
}
