package grammar

import (
	"testing"

	"github.com/dekarrin/tunacalc/binop"
	"github.com/dekarrin/tunacalc/lex"
	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_TokenMatcher_Match(t *testing.T) {
	stream := []syntax.Token{
		syntax.NumInt(1),
		syntax.OpToken(syntax.OpAdd),
		syntax.NumInt(2),
		syntax.CommaToken(),
		syntax.GroupToken(syntax.GroupClose),
	}

	testCases := []struct {
		name        string
		matcher     *TokenMatcher
		pos         int
		expectOK    bool
		expectCount int
	}{
		{name: "single category", matcher: Numeric(), pos: 0, expectOK: true, expectCount: 1},
		{name: "wrong category", matcher: Numeric(), pos: 1, expectOK: false},
		{name: "value matches", matcher: AddSub(), pos: 1, expectOK: true, expectCount: 1},
		{name: "value does not match", matcher: MulDiv(), pos: 1, expectOK: false},
		{name: "star stops at comma", matcher: NonGroupStar(), pos: 0, expectOK: true, expectCount: 3},
		{name: "star matches nothing", matcher: NonGroupStar(), pos: 3, expectOK: true, expectCount: 0},
		{name: "plus needs one", matcher: NonGroupPlus(), pos: 3, expectOK: false},
		{name: "past the end", matcher: Numeric(), pos: 5, expectOK: false},
		{name: "star past the end", matcher: NonGroupStar(), pos: 5, expectOK: true, expectCount: 0},
		{name: "or of children", matcher: Or(String(), Comma()), pos: 3, expectOK: true, expectCount: 1},
		{name: "inverted", matcher: Numeric().Not(), pos: 1, expectOK: true, expectCount: 1},
		{name: "arguments stop at close", matcher: Arguments(), pos: 2, expectOK: true, expectCount: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ok, consumed := tc.matcher.Match(stream, tc.pos)

			assert.Equal(tc.expectOK, ok)
			assert.Len(consumed, tc.expectCount)
		})
	}
}

func Test_TokenMatcher_immutable(t *testing.T) {
	assert := assert.New(t)

	base := Numeric()
	_ = base.Star()
	_ = base.Caret()
	_ = base.Not()

	assert.Equal("numeric", base.String())
	assert.Equal("^numeric", base.Caret().String())
	assert.Equal("!numeric*", base.Not().Star().String())
	assert.False(base.Anchored())
}

func evalString(t *testing.T, tab *Table, expr string) (syntax.Token, error) {
	t.Helper()

	tokens, err := lex.Lex(expr)
	if err != nil {
		t.Fatalf("lex %q: %v", expr, err)
	}
	return reduce.New(tab, binop.Standard()).Evaluate(tokens)
}

func Test_CoreRules(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect syntax.Token
	}{
		{name: "empty", input: "", expect: syntax.NumInt(0)},
		{name: "precedence", input: "1 + 2 * 3", expect: syntax.NumInt(7)},
		{name: "left to right subtraction", input: "10 - 4 - 3", expect: syntax.NumInt(3)},
		{name: "parens", input: "(1 + 2) * 3", expect: syntax.NumInt(9)},
		{name: "power binds tighter than multiply", input: "2 * 3 ^ 2", expect: syntax.NumInt(18)},
		{name: "negative exponent", input: "2 ^ -2", expect: syntax.Num(decimal.RequireFromString("0.25"))},
		{name: "leading minus", input: "-2 * 3", expect: syntax.NumInt(-6)},
		{name: "multiply by negative then add", input: "2 * -3 + 1", expect: syntax.NumInt(-5)},
		{name: "divide by negative then add", input: "4 / -2 + 1", expect: syntax.NumInt(-1)},
		{name: "subtract negative", input: "5 - -3", expect: syntax.NumInt(8)},
		{name: "modulo", input: "10 % 4", expect: syntax.NumInt(2)},
		{name: "percentage", input: "50%", expect: syntax.Num(decimal.RequireFromString("0.5"))},
		{name: "percentage of amount", input: "200 * 10%", expect: syntax.NumInt(20)},
		{name: "exact decimals", input: "0.1 + 0.2 = 0.3", expect: syntax.Bool(true)},
		{name: "ascending range", input: "1 < 2 <= 2", expect: syntax.Bool(true)},
		{name: "descending range", input: "3 > 2 > 2", expect: syntax.Bool(false)},
		{name: "string comparison", input: `"abc" < "abd"`, expect: syntax.Bool(true)},
		{name: "logical comparison", input: "(1 < 2) = true", expect: syntax.Bool(true)},
		{name: "combinators", input: "1 < 2 and 3 > 4 or true", expect: syntax.Bool(true)},
		{name: "if true branch", input: "if(1 < 2, 10, 20)", expect: syntax.NumInt(10)},
		{name: "if false branch", input: `if(false, "y", "n")`, expect: syntax.Str("n")},
		{name: "if with computed branches", input: "if(1 = 1, 2 * 3, 4 + 5)", expect: syntax.NumInt(6)},
		{name: "round default", input: "round(2.5)", expect: syntax.NumInt(3)},
		{name: "round places", input: "round(12.345, 2)", expect: syntax.Num(decimal.RequireFromString("12.35"))},
		{name: "round expression", input: "round(10 / 3, 1)", expect: syntax.Num(decimal.RequireFromString("3.3"))},
		{name: "roundup", input: "roundup(1.01)", expect: syntax.NumInt(2)},
		{name: "rounddown", input: "rounddown(-1.5)", expect: syntax.NumInt(-2)},
		{name: "not", input: "not(1 < 2)", expect: syntax.Bool(false)},
		{name: "nested calls", input: "round(roundup(1.2) + 0.5)", expect: syntax.NumInt(3)},
		{name: "group inside call", input: "roundup((1 + 2) / 2)", expect: syntax.NumInt(2)},
		{name: "round below half", input: "round(12.344, 2)", expect: syntax.Num(decimal.RequireFromString("12.34"))},
		{name: "round negative", input: "round(-1.26, 1)", expect: syntax.Num(decimal.RequireFromString("-1.2"))},
		{name: "round negative half", input: "round(-2.5)", expect: syntax.NumInt(-2)},
		{name: "round many places", input: "round(1.234567890123456789015, 20)", expect: syntax.Num(decimal.RequireFromString("1.23456789012345678902"))},
		{name: "if zero is true", input: "if(0, 1, 2)", expect: syntax.NumInt(1)},
		{name: "if empty string is true", input: `if("", 1, 2)`, expect: syntax.NumInt(1)},
		{name: "not zero", input: "not(0)", expect: syntax.Bool(false)},
		{name: "not around round", input: "not(round(0.4) = 0)", expect: syntax.Bool(false)},
		{name: "round around not", input: "round(if(not(1 > 2), 1.26, 0), 1)", expect: syntax.Num(decimal.RequireFromString("1.3"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := evalString(t, New(), tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Truef(tc.expect.Equal(actual), "expected %s, got %s", tc.expect, actual)
		})
	}
}

func Test_Table_AddFunction(t *testing.T) {
	maxFn := syntax.Func{
		Name:      "max",
		Returns:   syntax.Numeric,
		Signature: []syntax.Category{syntax.Arguments},
		Body: func(args ...any) (any, error) {
			best, err := syntax.ToDecimal(args[0])
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				d, err := syntax.ToDecimal(a)
				if err != nil {
					return nil, err
				}
				if d.GreaterThan(best) {
					best = d
				}
			}
			return best, nil
		},
	}
	concat := syntax.Func{
		Name:      "concat",
		Returns:   syntax.String,
		Signature: []syntax.Category{syntax.String, syntax.String},
		Body: func(args ...any) (any, error) {
			return args[0].(string) + args[1].(string), nil
		},
	}

	testCases := []struct {
		name   string
		input  string
		expect syntax.Token
	}{
		{name: "variadic", input: "max(3, 9, 4)", expect: syntax.NumInt(9)},
		{name: "arguments reduced first", input: "max(1 + 1, 3 * 3) + 1", expect: syntax.NumInt(10)},
		{name: "fixed signature", input: `concat("a", "b")`, expect: syntax.Str("ab")},
		{name: "inside a core function", input: "round(max(1.26, 1.2), 1)", expect: syntax.Num(decimal.RequireFromString("1.3"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tab := New()
			if !assert.NoError(tab.AddFunction(maxFn)) {
				return
			}
			if !assert.NoError(tab.AddFunction(concat)) {
				return
			}

			actual, err := evalString(t, tab, tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Truef(tc.expect.Equal(actual), "expected %s, got %s", tc.expect, actual)
		})
	}
}

func Test_Table_AddFunction_ordering(t *testing.T) {
	assert := assert.New(t)

	body := func(args ...any) (any, error) { return true, nil }
	tab := New()

	assert.NoError(tab.AddFunction(syntax.Func{Name: "a", Returns: syntax.Logical, Body: body}))
	assert.NoError(tab.AddFunction(syntax.Func{Name: "b", Returns: syntax.Logical, Body: body}))
	assert.NoError(tab.AddFunction(syntax.Func{Name: "a", Returns: syntax.Logical, Body: body}))

	rules := tab.Rules()
	assert.Equal("a", rules[0].Name)
	assert.Equal("b", rules[1].Name)
	assert.Equal("if", rules[2].Name)
	assert.Len(rules, len(CoreRules())+2)
	assert.Len(tab.Functions(), 2)
}

func Test_Table_AddFunction_invalid(t *testing.T) {
	body := func(args ...any) (any, error) { return nil, nil }

	testCases := []struct {
		name  string
		input syntax.Func
	}{
		{name: "reserved name", input: syntax.Func{Name: "round", Returns: syntax.Numeric, Body: body}},
		{name: "no name", input: syntax.Func{Returns: syntax.Numeric, Body: body}},
		{name: "no body", input: syntax.Func{Name: "f", Returns: syntax.Numeric}},
		{name: "bad return", input: syntax.Func{Name: "f", Returns: syntax.Comma, Body: body}},
		{name: "bad param", input: syntax.Func{Name: "f", Returns: syntax.Numeric, Signature: []syntax.Category{syntax.Grouping}, Body: body}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := New().AddFunction(tc.input)

			assert.ErrorIs(err, syntax.ErrInvalidFunc)
		})
	}
}
