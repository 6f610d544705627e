// Package grammar holds the token matchers and the default rule table used to
// reduce calculator expressions.
package grammar

import (
	"math"
	"strings"

	"github.com/dekarrin/tunacalc/syntax"
)

// unbounded is the repetition limit of a matcher that can consume any number
// of tokens.
const unbounded = math.MaxInt

// TokenMatcher matches runs of tokens by category and, optionally, value. A
// TokenMatcher is never modified after it is built; methods that change its
// behavior return a new one.
type TokenMatcher struct {
	categories []syntax.Category
	values     []any
	children   []*TokenMatcher
	invert     bool
	min        int
	max        int
	anchored   bool
}

// Category returns a matcher for exactly one token of any of the given
// categories.
func Category(cats ...syntax.Category) *TokenMatcher {
	return &TokenMatcher{categories: cats, min: 1, max: 1}
}

// Value returns a matcher for exactly one token of category cat whose value is
// one of vals.
func Value(cat syntax.Category, vals ...any) *TokenMatcher {
	return &TokenMatcher{categories: []syntax.Category{cat}, values: vals, min: 1, max: 1}
}

// Or returns a matcher for exactly one token matched by any of ms.
func Or(ms ...*TokenMatcher) *TokenMatcher {
	children := make([]*TokenMatcher, len(ms))
	copy(children, ms)
	return &TokenMatcher{children: children, min: 1, max: 1}
}

func (m *TokenMatcher) clone() *TokenMatcher {
	c := *m
	return &c
}

// Not returns a matcher that matches whatever m does not.
func (m *TokenMatcher) Not() *TokenMatcher {
	c := m.clone()
	c.invert = !c.invert
	return c
}

// Star returns a matcher for zero or more tokens m would match.
func (m *TokenMatcher) Star() *TokenMatcher {
	c := m.clone()
	c.min, c.max = 0, unbounded
	return c
}

// Plus returns a matcher for one or more tokens m would match.
func (m *TokenMatcher) Plus() *TokenMatcher {
	c := m.clone()
	c.min, c.max = 1, unbounded
	return c
}

// Caret returns a matcher that only matches at the start of a stream.
func (m *TokenMatcher) Caret() *TokenMatcher {
	c := m.clone()
	c.anchored = true
	return c
}

// Anchored returns whether m only matches at position 0.
func (m *TokenMatcher) Anchored() bool {
	return m.anchored
}

// Matches returns whether the single token t satisfies m.
func (m *TokenMatcher) Matches(t syntax.Token) bool {
	var ok bool
	if len(m.children) > 0 {
		for _, child := range m.children {
			if child.Matches(t) {
				ok = true
				break
			}
		}
	} else {
		ok = m.matchesCategory(t) && m.matchesValue(t)
	}
	return ok != m.invert
}

func (m *TokenMatcher) matchesCategory(t syntax.Token) bool {
	if len(m.categories) == 0 {
		return true
	}
	for _, c := range m.categories {
		if t.Category == c {
			return true
		}
	}
	return false
}

func (m *TokenMatcher) matchesValue(t syntax.Token) bool {
	if len(m.values) == 0 {
		return true
	}
	for _, v := range m.values {
		if t.Value == v {
			return true
		}
	}
	return false
}

// Match consumes as many tokens starting at pos as m allows, up to its
// maximum. It fails if fewer than its minimum were consumed.
func (m *TokenMatcher) Match(stream []syntax.Token, pos int) (bool, []syntax.Token) {
	if pos < 0 {
		return false, nil
	}

	count := 0
	for pos+count < len(stream) && count < m.max && m.Matches(stream[pos+count]) {
		count++
	}

	if count < m.min {
		return false, nil
	}
	if count == 0 {
		return true, nil
	}
	return true, stream[pos : pos+count]
}

func (m *TokenMatcher) String() string {
	var sb strings.Builder
	if m.anchored {
		sb.WriteRune('^')
	}
	if m.invert {
		sb.WriteRune('!')
	}

	if len(m.children) > 0 {
		parts := make([]string, len(m.children))
		for i := range m.children {
			parts[i] = m.children[i].String()
		}
		sb.WriteString("(" + strings.Join(parts, "|") + ")")
	} else {
		names := make([]string, len(m.categories))
		for i := range m.categories {
			names[i] = m.categories[i].String()
		}
		sb.WriteString(strings.Join(names, "|"))
		if len(m.values) > 0 {
			vals := make([]string, len(m.values))
			for i := range m.values {
				vals[i] = syntax.Token{Category: m.categories[0], Value: m.values[i]}.String()
			}
			sb.WriteString("[" + strings.Join(vals, " ") + "]")
		}
	}

	switch {
	case m.min == 0 && m.max == unbounded:
		sb.WriteRune('*')
	case m.min == 1 && m.max == unbounded:
		sb.WriteRune('+')
	}
	return sb.String()
}
