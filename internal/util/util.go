// Package util holds small helpers shared by the calculator's internal
// packages.
package util

import "strings"

// TextList joins items into an English list: "a", "a and b", or
// "a, b, and c".
func TextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		// if its more than two, use an oxford comma
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// OrderedSet is a set of strings that remembers the order elements were first
// added in. The zero value is ready to use.
type OrderedSet struct {
	has   map[string]bool
	order []string
}

// Add adds value to the set if it is not already there.
func (s *OrderedSet) Add(value string) {
	if s.has == nil {
		s.has = map[string]bool{}
	}
	if s.has[value] {
		return
	}
	s.has[value] = true
	s.order = append(s.order, value)
}

// Has returns whether value is in the set.
func (s *OrderedSet) Has(value string) bool {
	return s.has[value]
}

// Len returns the number of elements in the set.
func (s *OrderedSet) Len() int {
	return len(s.order)
}

// Elements returns the elements in the order they were first added.
func (s *OrderedSet) Elements() []string {
	if len(s.order) == 0 {
		return nil
	}
	el := make([]string, len(s.order))
	copy(el, s.order)
	return el
}
