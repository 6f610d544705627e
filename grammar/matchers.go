package grammar

import "github.com/dekarrin/tunacalc/syntax"

// Named matchers the default rules are built from.

func Numeric() *TokenMatcher { return Category(syntax.Numeric) }
func String() *TokenMatcher  { return Category(syntax.String) }
func Logical() *TokenMatcher { return Category(syntax.Logical) }

// AnyValue matches one numeric, string, or logical token.
func AnyValue() *TokenMatcher {
	return Category(syntax.Numeric, syntax.String, syntax.Logical)
}

func AddSub() *TokenMatcher   { return Value(syntax.Operator, syntax.OpAdd, syntax.OpSubtract) }
func Subtract() *TokenMatcher { return Value(syntax.Operator, syntax.OpSubtract) }
func MulDiv() *TokenMatcher   { return Value(syntax.Operator, syntax.OpMultiply, syntax.OpDivide) }
func Pow() *TokenMatcher      { return Value(syntax.Operator, syntax.OpPow) }
func Mod() *TokenMatcher      { return Value(syntax.Operator, syntax.OpMod) }

// AnchoredMinus matches a minus sign at the very start of a stream.
func AnchoredMinus() *TokenMatcher {
	return Subtract().Caret()
}

func Comparator() *TokenMatcher { return Category(syntax.Comparator) }

// Equality matches the = and != comparators.
func Equality() *TokenMatcher {
	return Value(syntax.Comparator, syntax.OpEqual, syntax.OpNotEqual)
}

func CompLT() *TokenMatcher {
	return Value(syntax.Comparator, syntax.OpLessThan, syntax.OpLessThanEqual)
}

func CompGT() *TokenMatcher {
	return Value(syntax.Comparator, syntax.OpGreaterThan, syntax.OpGreaterThanEqual)
}

func Combinator() *TokenMatcher { return Category(syntax.Combinator) }

func Open() *TokenMatcher     { return Value(syntax.Grouping, syntax.GroupOpen) }
func Close() *TokenMatcher    { return Value(syntax.Grouping, syntax.GroupClose) }
func FuncOpen() *TokenMatcher { return Value(syntax.Grouping, syntax.GroupFuncOpen) }
func Comma() *TokenMatcher    { return Category(syntax.Comma) }

// NonGroup matches any one token that is neither a grouping token nor a
// comma.
func NonGroup() *TokenMatcher {
	return Category(syntax.Grouping, syntax.Comma).Not()
}

func NonGroupStar() *TokenMatcher { return NonGroup().Star() }
func NonGroupPlus() *TokenMatcher { return NonGroup().Plus() }

// Arguments matches a comma-separated run of values.
func Arguments() *TokenMatcher {
	return Or(AnyValue(), Comma()).Plus()
}

// Func matches a function name token naming fn.
func Func(fn string) *TokenMatcher {
	return Value(syntax.Function, fn)
}

// ForCategory returns the matcher for a single parameter of the given
// category in a function signature.
func ForCategory(cat syntax.Category) *TokenMatcher {
	switch cat {
	case syntax.Arguments:
		return Arguments()
	case syntax.Comma:
		return Comma()
	default:
		return Category(cat)
	}
}
