// Package binop provides the standard implementations of the calculator's
// binary operators.
package binop

import (
	"fmt"

	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/shopspring/decimal"
)

// Table maps operators to their implementations. It implements
// reduce.OperationTable.
type Table map[syntax.Op]reduce.BinaryOp

// Lookup returns the implementation of op.
func (tab Table) Lookup(op syntax.Op) (reduce.BinaryOp, bool) {
	fn, ok := tab[op]
	return fn, ok
}

// Standard returns a new Table with every operator implemented.
func Standard() Table {
	return Table{
		syntax.OpAdd:      arithmetic(add),
		syntax.OpSubtract: arithmetic(subtract),
		syntax.OpMultiply: arithmetic(multiply),
		syntax.OpDivide:   arithmetic(divide),
		syntax.OpPow:      arithmetic(syntax.Pow),
		syntax.OpMod:      arithmetic(mod),

		syntax.OpLessThan:         ordering(func(c int) bool { return c < 0 }),
		syntax.OpLessThanEqual:    ordering(func(c int) bool { return c <= 0 }),
		syntax.OpGreaterThan:      ordering(func(c int) bool { return c > 0 }),
		syntax.OpGreaterThanEqual: ordering(func(c int) bool { return c >= 0 }),
		syntax.OpEqual:            equality(true),
		syntax.OpNotEqual:         equality(false),

		syntax.OpAnd: logical(func(l, r bool) bool { return l && r }),
		syntax.OpOr:  logical(func(l, r bool) bool { return l || r }),
	}
}

func add(l, r decimal.Decimal) (decimal.Decimal, error)      { return l.Add(r), nil }
func subtract(l, r decimal.Decimal) (decimal.Decimal, error) { return l.Sub(r), nil }
func multiply(l, r decimal.Decimal) (decimal.Decimal, error) { return l.Mul(r), nil }

func divide(l, r decimal.Decimal) (decimal.Decimal, error) {
	if r.IsZero() {
		return decimal.Zero, syntax.ErrDivideByZero
	}
	return l.Div(r), nil
}

func mod(l, r decimal.Decimal) (decimal.Decimal, error) {
	if r.IsZero() {
		return decimal.Zero, syntax.ErrDivideByZero
	}
	return l.Mod(r), nil
}

func arithmetic(fn func(l, r decimal.Decimal) (decimal.Decimal, error)) reduce.BinaryOp {
	return func(left, right any) (any, syntax.Category, error) {
		l, r, err := numbers(left, right)
		if err != nil {
			return nil, 0, err
		}
		result, err := fn(l, r)
		if err != nil {
			return nil, 0, err
		}
		return result, syntax.Numeric, nil
	}
}

// ordering compares two numbers or two strings and gives the test's verdict
// on the comparison result.
func ordering(test func(cmp int) bool) reduce.BinaryOp {
	return func(left, right any) (any, syntax.Category, error) {
		if ls, ok := left.(string); ok {
			rs, ok := right.(string)
			if !ok {
				return nil, 0, mismatch(left, right)
			}
			cmp := 0
			if ls < rs {
				cmp = -1
			} else if ls > rs {
				cmp = 1
			}
			return test(cmp), syntax.Logical, nil
		}

		l, r, err := numbers(left, right)
		if err != nil {
			return nil, 0, err
		}
		return test(l.Cmp(r)), syntax.Logical, nil
	}
}

func equality(want bool) reduce.BinaryOp {
	return func(left, right any) (any, syntax.Category, error) {
		var eq bool
		switch l := left.(type) {
		case string:
			r, ok := right.(string)
			if !ok {
				return nil, 0, mismatch(left, right)
			}
			eq = l == r
		case bool:
			r, ok := right.(bool)
			if !ok {
				return nil, 0, mismatch(left, right)
			}
			eq = l == r
		default:
			ld, rd, err := numbers(left, right)
			if err != nil {
				return nil, 0, err
			}
			eq = ld.Equal(rd)
		}
		return eq == want, syntax.Logical, nil
	}
}

func logical(fn func(l, r bool) bool) reduce.BinaryOp {
	return func(left, right any) (any, syntax.Category, error) {
		l, lok := left.(bool)
		r, rok := right.(bool)
		if !lok || !rok {
			return nil, 0, mismatch(left, right)
		}
		return fn(l, r), syntax.Logical, nil
	}
}

func numbers(left, right any) (decimal.Decimal, decimal.Decimal, error) {
	l, lok := left.(decimal.Decimal)
	r, rok := right.(decimal.Decimal)
	if !lok || !rok {
		return decimal.Zero, decimal.Zero, mismatch(left, right)
	}
	return l, r, nil
}

func mismatch(left, right any) error {
	return fmt.Errorf("%w: operands %T and %T", syntax.ErrTypeMismatch, left, right)
}
