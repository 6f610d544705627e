// Package syntax contains the token model shared by the lexer, the grammar and
// the reduction engine, along with the value coercions and numeric helpers
// that operate on token values.
package syntax

import (
	"fmt"
	"strings"
)

// Category is the kind of a Token. It determines what Go type the token's
// Value holds.
type Category int

const (
	Numeric Category = iota
	Logical
	String
	Identifier
	Grouping
	Operator
	Comparator
	Combinator
	Function
	Comma

	// Arguments never appears on a token. It is only valid in a Function
	// signature, where it stands for a variable-length comma-separated list of
	// values.
	Arguments
)

var categoryNames = map[Category]string{
	Numeric:    "numeric",
	Logical:    "logical",
	String:     "string",
	Identifier: "identifier",
	Grouping:   "grouping",
	Operator:   "operator",
	Comparator: "comparator",
	Combinator: "combinator",
	Function:   "function",
	Comma:      "comma",
	Arguments:  "arguments",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// IsValue returns whether the category is one that holds a value usable as an
// operand: Numeric, Logical, or String.
func (c Category) IsValue() bool {
	return c == Numeric || c == Logical || c == String
}

// ParseCategory is the inverse of Category.String. Matching is
// case-insensitive.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == norm {
			return c, nil
		}
	}
	return 0, fmt.Errorf("not a token category: %q", s)
}
