package syntax

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrDivideByZero  = errors.New("division by zero")
	ErrDomain        = errors.New("result is not a real number")
	ErrNotAValue     = errors.New("not a value")
	ErrUnsupportedGo = errors.New("unsupported Go type")
)

// Truthy returns whether v counts as true when used as a condition. Only nil
// and false are false; 0 and "" are true.
func Truthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case Token:
		return Truthy(tv.Value)
	default:
		return true
	}
}

// ToDecimal converts a numeric Go value to a decimal. Infinite and NaN floats
// give ErrDomain.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch tv := v.(type) {
	case decimal.Decimal:
		return tv, nil
	case int:
		return decimal.NewFromInt(int64(tv)), nil
	case int8:
		return decimal.NewFromInt(int64(tv)), nil
	case int16:
		return decimal.NewFromInt(int64(tv)), nil
	case int32:
		return decimal.NewFromInt(int64(tv)), nil
	case int64:
		return decimal.NewFromInt(tv), nil
	case uint:
		return fromUint64(uint64(tv)), nil
	case uint64:
		return fromUint64(tv), nil
	case uint8:
		return decimal.NewFromInt(int64(tv)), nil
	case uint16:
		return decimal.NewFromInt(int64(tv)), nil
	case uint32:
		return decimal.NewFromInt(int64(tv)), nil
	case float32:
		if !finite(float64(tv)) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrDomain, tv)
		}
		return decimal.NewFromFloat32(tv), nil
	case float64:
		if !finite(tv) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrDomain, tv)
		}
		return decimal.NewFromFloat(tv), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %T is not numeric", ErrTypeMismatch, v)
	}
}

func fromUint64(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// TokenOf wraps v in a token of category cat, converting v to the Go type that
// category uses. Only value categories are accepted.
func TokenOf(cat Category, v any) (Token, error) {
	switch cat {
	case Numeric:
		d, err := ToDecimal(v)
		if err != nil {
			return Token{}, err
		}
		return Num(d), nil
	case Logical:
		b, ok := v.(bool)
		if !ok {
			return Token{}, fmt.Errorf("%w: %T is not logical", ErrTypeMismatch, v)
		}
		return Bool(b), nil
	case String:
		s, ok := v.(string)
		if !ok {
			return Token{}, fmt.Errorf("%w: %T is not a string", ErrTypeMismatch, v)
		}
		return Str(s), nil
	default:
		return Token{}, fmt.Errorf("%w: category %s", ErrNotAValue, cat)
	}
}

// ValueOf wraps v in a token whose category is inferred from v's Go type. A
// Token that holds a value is returned unchanged.
func ValueOf(v any) (Token, error) {
	switch tv := v.(type) {
	case Token:
		if !tv.Category.IsValue() {
			return Token{}, fmt.Errorf("%w: %s token", ErrNotAValue, tv.Category)
		}
		return tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return Str(tv), nil
	default:
		d, err := ToDecimal(v)
		if errors.Is(err, ErrTypeMismatch) {
			return Token{}, fmt.Errorf("%w: %T", ErrUnsupportedGo, v)
		} else if err != nil {
			return Token{}, err
		}
		return Num(d), nil
	}
}

// NumberOf returns the decimal held by a Numeric token.
func NumberOf(t Token) (decimal.Decimal, error) {
	if t.Category != Numeric {
		return decimal.Zero, fmt.Errorf("%w: %s is %s, not numeric", ErrTypeMismatch, t, t.Category)
	}
	d, ok := t.Value.(decimal.Decimal)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: numeric token holds %T", ErrTypeMismatch, t.Value)
	}
	return d, nil
}
