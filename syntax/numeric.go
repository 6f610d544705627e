package syntax

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MaxScale is the largest magnitude allowed for the exponent of a numeric
	// literal and for the number of places given to round.
	MaxScale = 1000

	// MaxPowDigits bounds an exact integer power, estimated as the digits of
	// the base times the magnitude of the exponent.
	MaxPowDigits = 100000
)

var half = decimal.New(5, -1)

// Pow raises base to exp. Integer exponents are computed exactly; any other
// exponent goes through float64. An exact power that would exceed
// MaxPowDigits gives ErrDomain.
func Pow(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if exp.IsInteger() {
		if base.IsZero() && exp.Sign() < 0 {
			return decimal.Zero, ErrDivideByZero
		}
		if powTooLarge(base, exp) {
			return decimal.Zero, fmt.Errorf("%w: %s ^ %s is too large", ErrDomain, base, exp)
		}
		return base.Pow(exp), nil
	}

	if base.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %s ^ %s", ErrDomain, base, exp)
	}

	f := math.Pow(base.InexactFloat64(), exp.InexactFloat64())
	if !finite(f) {
		return decimal.Zero, fmt.Errorf("%w: %s ^ %s", ErrDomain, base, exp)
	}
	return decimal.NewFromFloat(f), nil
}

func powTooLarge(base, exp decimal.Decimal) bool {
	if exp.Abs().GreaterThan(decimal.NewFromInt(MaxPowDigits)) {
		return true
	}

	digits := int64(base.NumDigits())
	if e := int64(base.Exponent()); e < 0 {
		digits -= e
	} else {
		digits += e
	}
	return digits*exp.Abs().IntPart() > MaxPowDigits
}

// Places converts d to a number of decimal places for RoundHalfUp. The
// fraction is dropped. A magnitude over MaxScale gives ErrDomain.
func Places(d decimal.Decimal) (int32, error) {
	if d.Abs().GreaterThan(decimal.NewFromInt(MaxScale)) {
		return 0, fmt.Errorf("%w: %s places is out of range", ErrDomain, d)
	}
	return int32(d.IntPart()), nil
}

// RoundHalfUp rounds v to the given number of decimal places. The value is
// scaled by 10^places; if the scaled fractional part is at least one half the
// ceiling is taken, otherwise the fraction is dropped. Negative places round
// to the left of the decimal point.
func RoundHalfUp(v decimal.Decimal, places int32) decimal.Decimal {
	scaled := v.Shift(places)
	whole := scaled.Truncate(0)

	if scaled.Sub(whole).GreaterThanOrEqual(half) {
		whole = scaled.Ceil()
	}

	return whole.Shift(-places)
}
