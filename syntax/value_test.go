package syntax

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_Truthy(t *testing.T) {
	testCases := []struct {
		name   string
		input  any
		expect bool
	}{
		{name: "true", input: true, expect: true},
		{name: "false", input: false, expect: false},
		{name: "zero", input: decimal.Zero, expect: true},
		{name: "non-zero", input: decimal.NewFromInt(-3), expect: true},
		{name: "empty string", input: "", expect: true},
		{name: "non-empty string", input: "no", expect: true},
		{name: "nil", input: nil, expect: false},
		{name: "logical token", input: Bool(false), expect: false},
		{name: "zero token", input: NumInt(0), expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Truthy(tc.input))
		})
	}
}

func Test_ValueOf(t *testing.T) {
	testCases := []struct {
		name      string
		input     any
		expect    Token
		expectErr bool
	}{
		{name: "int", input: 8, expect: NumInt(8)},
		{name: "float", input: 1.5, expect: Num(decimal.RequireFromString("1.5"))},
		{name: "bool", input: true, expect: Bool(true)},
		{name: "string", input: "fish", expect: Str("fish")},
		{name: "value token", input: Str("a"), expect: Str("a")},
		{name: "non-value token", input: CommaToken(), expectErr: true},
		{name: "struct", input: struct{}{}, expectErr: true},
		{name: "max uint64", input: uint64(math.MaxUint64), expect: Num(decimal.RequireFromString("18446744073709551615"))},
		{name: "positive infinity", input: math.Inf(1), expectErr: true},
		{name: "NaN", input: math.NaN(), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ValueOf(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Truef(tc.expect.Equal(actual), "expected %s, got %s", tc.expect, actual)
		})
	}
}

func Test_TokenOf(t *testing.T) {
	testCases := []struct {
		name      string
		cat       Category
		input     any
		expect    Token
		expectErr error
	}{
		{name: "int as numeric", cat: Numeric, input: int64(4), expect: NumInt(4)},
		{name: "bool as logical", cat: Logical, input: false, expect: Bool(false)},
		{name: "string as string", cat: String, input: "x", expect: Str("x")},
		{name: "string as numeric", cat: Numeric, input: "4", expectErr: ErrTypeMismatch},
		{name: "number as logical", cat: Logical, input: 1, expectErr: ErrTypeMismatch},
		{name: "non-value category", cat: Comma, input: nil, expectErr: ErrNotAValue},
		{name: "infinity as numeric", cat: Numeric, input: math.Inf(-1), expectErr: ErrDomain},
		{name: "float32 NaN as numeric", cat: Numeric, input: float32(math.NaN()), expectErr: ErrDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := TokenOf(tc.cat, tc.input)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Truef(tc.expect.Equal(actual), "expected %s, got %s", tc.expect, actual)
		})
	}
}

func Test_ToDecimal(t *testing.T) {
	testCases := []struct {
		name      string
		input     any
		expect    string
		expectErr error
	}{
		{name: "uint above max int64", input: uint(math.MaxUint64), expect: "18446744073709551615"},
		{name: "uint64", input: uint64(1) << 63, expect: "9223372036854775808"},
		{name: "int8", input: int8(-7), expect: "-7"},
		{name: "float", input: 0.25, expect: "0.25"},
		{name: "positive infinity", input: math.Inf(1), expectErr: ErrDomain},
		{name: "negative infinity", input: float32(math.Inf(-1)), expectErr: ErrDomain},
		{name: "NaN", input: math.NaN(), expectErr: ErrDomain},
		{name: "string", input: "1", expectErr: ErrTypeMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ToDecimal(tc.input)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}
