package lex

import (
	"testing"

	"github.com/dekarrin/tunacalc/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_Lex(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "blank string",
			input:  "",
			expect: "",
		},
		{
			name:   "whitespace only",
			input:  "  \t\n ",
			expect: "",
		},
		{
			name:   "arithmetic",
			input:  "1+2.5 * .5",
			expect: "1 + 2.5 * 0.5",
		},
		{
			name:   "exponent notation",
			input:  "1e3",
			expect: "1000",
		},
		{
			name:   "strings",
			input:  `"double" 'single'`,
			expect: `"double" "single"`,
		},
		{
			name:   "keywords are case-insensitive",
			input:  "TRUE And false OR x",
			expect: "true and false or x",
		},
		{
			name:   "symbolic combinators",
			input:  "a && b || c",
			expect: "a and b or c",
		},
		{
			name:   "comparators",
			input:  "1 <= 2 >= 3 != 4 <> 5 == 6 = 7 < 8 > 9",
			expect: "1 <= 2 >= 3 != 4 != 5 = 6 = 7 < 8 > 9",
		},
		{
			name:   "function call",
			input:  "ROUND (x, 2)",
			expect: "round ( x , 2 )",
		},
		{
			name:   "identifier containing a keyword",
			input:  "android + orbit",
			expect: "android + orbit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Lex(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, syntax.Stream(actual))
		})
	}
}

func Test_Lex_categories(t *testing.T) {
	assert := assert.New(t)

	actual, err := Lex("max(a, 1) % (2)")
	if !assert.NoError(err) {
		return
	}

	expect := []syntax.Token{
		syntax.Fn("max"),
		syntax.GroupToken(syntax.GroupFuncOpen),
		syntax.Ident("a"),
		syntax.CommaToken(),
		syntax.NumInt(1),
		syntax.GroupToken(syntax.GroupClose),
		syntax.OpToken(syntax.OpMod),
		syntax.GroupToken(syntax.GroupOpen),
		syntax.NumInt(2),
		syntax.GroupToken(syntax.GroupClose),
	}

	if !assert.Len(actual, len(expect)) {
		return
	}
	for i := range expect {
		assert.Truef(expect[i].Equal(actual[i]), "token %d: expected %s (%s), got %s (%s)", i, expect[i], expect[i].Category, actual[i], actual[i].Category)
	}
}

func Test_Lex_errors(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectLine int
		expectPos  int
		expectFull string
	}{
		{
			name:       "unexpected character",
			input:      "1 + $",
			expectLine: 1,
			expectPos:  5,
			expectFull: "1 + $\n    ^\nsyntax error: around line 1, char 5: unexpected character '$'",
		},
		{
			name:       "too many closing parens",
			input:      "(1))",
			expectLine: 1,
			expectPos:  4,
			expectFull: "(1))\n   ^\nsyntax error: around line 1, char 4: too many closing parentheses",
		},
		{
			name:       "unclosed function call",
			input:      "1 +\nround(2",
			expectLine: 2,
			expectPos:  6,
			expectFull: "round(2\n     ^\nsyntax error: around line 2, char 6: unclosed parenthesis",
		},
		{
			name:       "huge literal exponent",
			input:      "1e900000000 + 1",
			expectLine: 1,
			expectPos:  1,
			expectFull: "1e900000000 + 1\n^\nsyntax error: around line 1, char 1: exponent must be between -1000 and 1000",
		},
		{
			name:       "huge negative literal exponent",
			input:      "2 * 3E-1001",
			expectLine: 1,
			expectPos:  5,
			expectFull: "2 * 3E-1001\n    ^\nsyntax error: around line 1, char 5: exponent must be between -1000 and 1000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Lex(tc.input)

			if !assert.ErrorIs(err, ErrSyntax) {
				return
			}
			se, ok := err.(SyntaxError)
			if !assert.True(ok) {
				return
			}
			assert.Equal(tc.expectLine, se.Line())
			assert.Equal(tc.expectPos, se.Position())
			assert.Equal(tc.expectFull, se.FullMessage())
		})
	}
}

func Test_Fold(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("taxrate", Fold("TaxRate"))
}
