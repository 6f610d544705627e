package lex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is matched by every SyntaxError when checked with errors.Is.
var ErrSyntax = errors.New("syntax error")

// SyntaxError is an error in the text of an expression.
type SyntaxError struct {
	sourceLine string
	source     string

	// line that error occured on, 1-indexed.
	line int

	// position in line of error, 1-indexed.
	pos     int
	message string
}

func (se SyntaxError) Error() string {
	if se.line == 0 {
		return fmt.Sprintf("syntax error: %s", se.message)
	}

	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.line, se.pos, se.message)
}

// Is returns whether target is ErrSyntax.
func (se SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Source returns the exact text that caused the error. For errors not caused
// by any particular text, such as a missing close paren, this is empty.
func (se SyntaxError) Source() string {
	return se.source
}

// Line returns the 1-indexed line the error occured on, or 0 if not set.
func (se SyntaxError) Line() int {
	return se.line
}

// Position returns the 1-indexed character position that the error occured
// on, or 0 if not set.
func (se SyntaxError) Position() int {
	return se.pos
}

// FullMessage gives the error message preceded by the offending line and a
// cursor pointing at the problem position.
func (se SyntaxError) FullMessage() string {
	errMsg := se.Error()

	if se.line != 0 {
		errMsg = se.SourceLineWithCursor() + "\n" + errMsg
	}

	return errMsg
}

// SourceLineWithCursor returns the offending line of source with a cursor
// under it that points to where the error occured. It is blank if no source
// line is known.
func (se SyntaxError) SourceLineWithCursor() string {
	if se.sourceLine == "" {
		return ""
	}

	// pos is 1-indexed.
	cursorLine := strings.Repeat(" ", max(se.pos-1, 0)) + "^"

	return se.sourceLine + "\n" + cursorLine
}
