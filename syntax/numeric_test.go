package syntax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_RoundHalfUp(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		places int32
		expect string
	}{
		{
			name:   "round down to whole",
			input:  "1.4",
			expect: "1",
		},
		{
			name:   "exactly half rounds up",
			input:  "2.5",
			expect: "3",
		},
		{
			name:   "two places half rounds up",
			input:  "12.345",
			places: 2,
			expect: "12.35",
		},
		{
			name:   "two places below half",
			input:  "12.344",
			places: 2,
			expect: "12.34",
		},
		{
			name:   "negative places",
			input:  "125",
			places: -1,
			expect: "130",
		},
		{
			name:   "already whole",
			input:  "7",
			places: 3,
			expect: "7",
		},
		{
			name:   "more places than division precision",
			input:  "1.234567890123456789015",
			places: 20,
			expect: "1.23456789012345678902",
		},
		{
			name:   "negative below half is truncated",
			input:  "-1.26",
			places: 1,
			expect: "-1.2",
		},
		{
			name:   "negative half is truncated",
			input:  "-2.5",
			expect: "-2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			input := decimal.RequireFromString(tc.input)
			expect := decimal.RequireFromString(tc.expect)

			actual := RoundHalfUp(input, tc.places)

			assert.Truef(expect.Equal(actual), "expected %s, got %s", expect, actual)
		})
	}
}

func Test_Pow(t *testing.T) {
	testCases := []struct {
		name      string
		base      string
		exp       string
		expect    string
		expectErr error
	}{
		{
			name:   "integer exponent",
			base:   "2",
			exp:    "10",
			expect: "1024",
		},
		{
			name:   "negative integer exponent",
			base:   "2",
			exp:    "-3",
			expect: "0.125",
		},
		{
			name:   "fractional exponent",
			base:   "9",
			exp:    "0.5",
			expect: "3",
		},
		{
			name:      "zero to negative power",
			base:      "0",
			exp:       "-1",
			expectErr: ErrDivideByZero,
		},
		{
			name:      "exponent too large",
			base:      "10",
			exp:       "900000000",
			expectErr: ErrDomain,
		},
		{
			name:      "wide base to large power",
			base:      "1.0",
			exp:       "99999",
			expectErr: ErrDomain,
		},
		{
			name:      "scaled base to large power",
			base:      "1e500",
			exp:       "1000",
			expectErr: ErrDomain,
		},
		{
			name:      "fractional power of negative",
			base:      "-8",
			exp:       "0.5",
			expectErr: ErrDomain,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Pow(decimal.RequireFromString(tc.base), decimal.RequireFromString(tc.exp))
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			expect := decimal.RequireFromString(tc.expect)
			assert.Truef(expect.Equal(actual), "expected %s, got %s", expect, actual)
		})
	}
}

func Test_Places(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    int32
		expectErr error
	}{
		{name: "whole", input: "2", expect: 2},
		{name: "fraction dropped", input: "3.9", expect: 3},
		{name: "negative", input: "-2", expect: -2},
		{name: "at limit", input: "1000", expect: 1000},
		{name: "past int32", input: "4294967296", expectErr: ErrDomain},
		{name: "past limit", input: "-1001", expectErr: ErrDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Places(decimal.RequireFromString(tc.input))
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}
