package reduce

import (
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
)

// catMatcher matches tokens of any of its categories. With star set it
// matches zero or more; otherwise exactly one. With op set it also requires
// the token value to be that operator.
type catMatcher struct {
	cats     []syntax.Category
	op       *syntax.Op
	star     bool
	anchored bool
}

func (m catMatcher) ok(t syntax.Token) bool {
	for _, c := range m.cats {
		if t.Category == c {
			if m.op != nil && t.Value != *m.op {
				return false
			}
			return true
		}
	}
	return false
}

func (m catMatcher) Match(stream []syntax.Token, pos int) (bool, []syntax.Token) {
	var matched []syntax.Token
	for pos+len(matched) < len(stream) && m.ok(stream[pos+len(matched)]) {
		matched = append(matched, stream[pos+len(matched)])
		if !m.star {
			break
		}
	}
	if !m.star && len(matched) == 0 {
		return false, nil
	}
	return true, matched
}

func (m catMatcher) Anchored() bool {
	return m.anchored
}

// balancedGroup matches an open paren and everything up to and including its
// matching close paren, nested parens included.
type balancedGroup struct{}

func (balancedGroup) Match(stream []syntax.Token, pos int) (bool, []syntax.Token) {
	if pos >= len(stream) || stream[pos].Value != syntax.GroupOpen {
		return false, nil
	}
	level := 0
	for i := pos; i < len(stream); i++ {
		switch stream[i].Value {
		case syntax.GroupOpen, syntax.GroupFuncOpen:
			level++
		case syntax.GroupClose:
			level--
			if level == 0 {
				return true, stream[pos : i+1]
			}
		}
	}
	return false, nil
}

func (balancedGroup) Anchored() bool {
	return false
}

func cat(cats ...syntax.Category) catMatcher {
	return catMatcher{cats: cats}
}

func opm(op syntax.Op) catMatcher {
	return catMatcher{cats: []syntax.Category{op.Category()}, op: &op}
}

type testRules struct {
	rules []Rule
	funcs map[string]syntax.Func
}

func (tr testRules) Rules() []Rule {
	return tr.rules
}

func (tr testRules) Function(name string) (syntax.Func, bool) {
	fn, ok := tr.funcs[name]
	return fn, ok
}

type testOps map[syntax.Op]BinaryOp

func (ops testOps) Lookup(op syntax.Op) (BinaryOp, bool) {
	fn, ok := ops[op]
	return fn, ok
}

func arith(f func(l, r decimal.Decimal) decimal.Decimal) BinaryOp {
	return func(left, right any) (any, syntax.Category, error) {
		l, err := syntax.ToDecimal(left)
		if err != nil {
			return nil, 0, err
		}
		r, err := syntax.ToDecimal(right)
		if err != nil {
			return nil, 0, err
		}
		return f(l, r), syntax.Numeric, nil
	}
}

var (
	stdTestOps = testOps{
		syntax.OpAdd:      arith(decimal.Decimal.Add),
		syntax.OpMultiply: arith(decimal.Decimal.Mul),
		syntax.OpLessThan: func(left, right any) (any, syntax.Category, error) {
			return left.(decimal.Decimal).LessThan(right.(decimal.Decimal)), syntax.Logical, nil
		},
		syntax.OpAnd: func(left, right any) (any, syntax.Category, error) {
			return left.(bool) && right.(bool), syntax.Logical, nil
		},
	}
)

func n(s string) syntax.Token {
	return syntax.Num(decimal.RequireFromString(s))
}

func op(o syntax.Op) syntax.Token {
	return syntax.OpToken(o)
}

func open() syntax.Token {
	return syntax.GroupToken(syntax.GroupOpen)
}

func fopen() syntax.Token {
	return syntax.GroupToken(syntax.GroupFuncOpen)
}

func closep() syntax.Token {
	return syntax.GroupToken(syntax.GroupClose)
}

func comma() syntax.Token {
	return syntax.CommaToken()
}
