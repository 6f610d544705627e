package reduce

import (
	"errors"

	"github.com/dekarrin/tunacalc/syntax"
)

var (
	ErrNoRuleMatched   = errors.New("no rule matched")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUnknownFunction = errors.New("unknown function")
	ErrTooDeep         = errors.New("expression nested too deeply")
	ErrMalformedSpan   = errors.New("malformed span")
)

// Error is returned by the Engine when reduction fails. It has a message and
// one or more causes; calling errors.Is on an Error with any of its causes
// returns true. When reduction stopped because no rule matched, Residual gives
// the stream as it was at that point.
type Error struct {
	msg      string
	cause    []error
	residual []syntax.Token
}

func newError(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// Error returns the message, followed by the message of the first cause if
// there is one.
func (e Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}
	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of the Error.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether any cause of e is target. Error values themselves are
// never compared since they are not comparable.
func (e Error) Is(target error) bool {
	if _, ok := target.(Error); ok {
		return false
	}
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// Residual returns the token stream that could not be reduced further. It is
// only set when the error is caused by ErrNoRuleMatched.
func (e Error) Residual() []syntax.Token {
	if e.residual == nil {
		return nil
	}
	res := make([]syntax.Token, len(e.residual))
	copy(res, e.residual)
	return res
}
