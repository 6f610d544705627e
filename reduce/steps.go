package reduce

import (
	"fmt"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
)

var (
	negOne  = decimal.NewFromInt(-1)
	hundred = decimal.NewFromInt(100)
)

func one(t syntax.Token) []syntax.Token {
	return []syntax.Token{t}
}

func checkLen(step string, span []syntax.Token, n int) error {
	if len(span) != n {
		return fmt.Errorf("%w: %s needs %d tokens, got %d", ErrMalformedSpan, step, n, len(span))
	}
	return nil
}

// inner returns the tokens between a call's open and close parens. span must
// start with a function name and an open paren and end with a close paren.
func inner(step string, span []syntax.Token) ([]syntax.Token, error) {
	if len(span) < 3 {
		return nil, fmt.Errorf("%w: %s needs at least 3 tokens, got %d", ErrMalformedSpan, step, len(span))
	}
	return span[2 : len(span)-1], nil
}

// splitArgs splits tokens on commas and grouping tokens, dropping the
// separators and any empty pieces.
func splitArgs(tokens []syntax.Token) [][]syntax.Token {
	var args [][]syntax.Token
	var cur []syntax.Token
	for _, t := range tokens {
		if t.Category == syntax.Comma || t.Category == syntax.Grouping {
			if len(cur) > 0 {
				args = append(args, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		args = append(args, cur)
	}
	return args
}

func (eng *Engine) apply(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("apply", span, 3); err != nil {
		return nil, err
	}

	op, ok := span[1].Value.(syntax.Op)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an operator", ErrMalformedSpan, span[1])
	}

	var fn BinaryOp
	if eng.Ops != nil {
		fn, ok = eng.Ops.Lookup(op)
	}
	if fn == nil || !ok {
		return nil, newError(fmt.Sprintf("%q (%s)", op.Symbol(), op), ErrUnknownOperator)
	}

	val, cat, err := fn(span[0].Value, span[2].Value)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: %w", span[0], op.Symbol(), span[2], err)
	}
	return one(syntax.Token{Category: cat, Value: val}), nil
}

func negate(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("negate", span, 2); err != nil {
		return nil, err
	}

	d, err := syntax.NumberOf(span[1])
	if err != nil {
		return nil, err
	}
	return one(syntax.Token{Category: span[1].Category, Value: d.Mul(negOne)}), nil
}

func powNegate(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("pow_negate", span, 4); err != nil {
		return nil, err
	}

	base, err := syntax.NumberOf(span[0])
	if err != nil {
		return nil, err
	}
	exp, err := syntax.NumberOf(span[3])
	if err != nil {
		return nil, err
	}

	result, err := syntax.Pow(base, exp.Mul(negOne))
	if err != nil {
		return nil, err
	}
	return one(syntax.Token{Category: span[0].Category, Value: result}), nil
}

// mulNegate handles "a * - b" and "a / - b" in one step so that the negation
// binds before any lower-priority rule can claim b.
func mulNegate(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("mul_negate", span, 4); err != nil {
		return nil, err
	}

	v1, err := syntax.NumberOf(span[0])
	if err != nil {
		return nil, err
	}
	v2, err := syntax.NumberOf(span[3])
	if err != nil {
		return nil, err
	}

	var result decimal.Decimal
	switch span[1].Value {
	case syntax.OpMultiply:
		result = v1.Mul(v2)
	case syntax.OpDivide:
		if v2.IsZero() {
			return nil, syntax.ErrDivideByZero
		}
		result = v1.Div(v2)
	default:
		return nil, fmt.Errorf("%w: mul_negate cannot apply %s", ErrMalformedSpan, span[1])
	}

	return one(syntax.Token{Category: span[0].Category, Value: result.Mul(negOne)}), nil
}

func percentage(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("percentage", span, 2); err != nil {
		return nil, err
	}

	d, err := syntax.NumberOf(span[0])
	if err != nil {
		return nil, err
	}
	return one(syntax.Token{Category: span[0].Category, Value: d.Div(hundred)}), nil
}

// expandRange turns "a < b < c" into "a < b and b < c". The stream grows by
// two tokens; the inserted combinator is not a comparator so the result can
// never match a range rule again.
func expandRange(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("expand_range", span, 5); err != nil {
		return nil, err
	}

	left, oper1, middle, oper2, right := span[0], span[1], span[2], span[3], span[4]
	return []syntax.Token{left, oper1, middle, syntax.OpToken(syntax.OpAnd), middle, oper2, right}, nil
}

// ifThenElse selects a branch. Both branches are already single tokens by the
// time this runs, so both have been fully evaluated; there is no
// short-circuiting.
func ifThenElse(span []syntax.Token) ([]syntax.Token, error) {
	if err := checkLen("if", span, 8); err != nil {
		return nil, err
	}

	cond, trueVal, falseVal := span[2], span[4], span[6]
	if syntax.Truthy(cond.Value) {
		return one(trueVal), nil
	}
	return one(falseVal), nil
}

func (eng *Engine) round(span []syntax.Token, depth int) ([]syntax.Token, error) {
	tokens, err := inner("round", span)
	if err != nil {
		return nil, err
	}

	args := splitArgs(tokens)
	if len(args) > 2 {
		return nil, fmt.Errorf("%w: round takes at most 2 arguments, got %d", ErrMalformedSpan, len(args))
	}

	var valueTokens, placesTokens []syntax.Token
	if len(args) > 0 {
		valueTokens = args[0]
	}
	if len(args) > 1 {
		placesTokens = args[1]
	}

	valTok, err := eng.reduce(valueTokens, depth+1)
	if err != nil {
		return nil, err
	}
	value, err := syntax.NumberOf(valTok)
	if err != nil {
		return nil, err
	}

	var places int32
	if placesTokens != nil {
		placesTok, err := eng.reduce(placesTokens, depth+1)
		if err != nil {
			return nil, err
		}
		p, err := syntax.NumberOf(placesTok)
		if err != nil {
			return nil, err
		}
		places, err = syntax.Places(p)
		if err != nil {
			return nil, err
		}
	}

	return one(syntax.Num(syntax.RoundHalfUp(value, places))), nil
}

func (eng *Engine) roundInt(span []syntax.Token, depth int) ([]syntax.Token, error) {
	tokens, err := inner("round_int", span)
	if err != nil {
		return nil, err
	}

	valTok, err := eng.reduce(tokens, depth+1)
	if err != nil {
		return nil, err
	}
	value, err := syntax.NumberOf(valTok)
	if err != nil {
		return nil, err
	}

	switch span[0].Value {
	case "roundup":
		return one(syntax.Num(value.Ceil())), nil
	case "rounddown":
		return one(syntax.Num(value.Floor())), nil
	default:
		return nil, fmt.Errorf("%w: round_int cannot apply %s", ErrMalformedSpan, span[0])
	}
}

func (eng *Engine) not(span []syntax.Token, depth int) ([]syntax.Token, error) {
	tokens, err := inner("not", span)
	if err != nil {
		return nil, err
	}

	valTok, err := eng.reduce(tokens, depth+1)
	if err != nil {
		return nil, err
	}
	return one(syntax.Bool(!syntax.Truthy(valTok.Value))), nil
}

func (eng *Engine) group(span []syntax.Token, depth int) ([]syntax.Token, error) {
	if len(span) < 2 {
		return nil, fmt.Errorf("%w: group needs at least 2 tokens, got %d", ErrMalformedSpan, len(span))
	}

	result, err := eng.reduce(span[1:len(span)-1], depth+1)
	if err != nil {
		return nil, err
	}
	return one(result), nil
}
