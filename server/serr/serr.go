// Package serr holds the errors returned by the calculator server's service
// layer. Callers classify an error with errors.Is against the sentinels
// declared here; an Error can carry several of them at once.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrEvaluation     = errors.New("the expression could not be evaluated")
)

// Error is a message with any number of causes. errors.Is and errors.As see
// every cause. Its text is the message followed by the text of the first
// cause; with no message it is only the first cause's text.
type Error struct {
	msg    string
	causes []error
}

// New returns an Error with the given message and causes. msg may be empty.
func New(msg string, causes ...error) Error {
	return Error{msg: msg, causes: append([]error(nil), causes...)}
}

// WrapDB returns an Error caused by err and ErrDB.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// Evaluation returns an Error caused by err, a calculator error, and
// ErrEvaluation. Its text is err's text alone so it can be shown to the client
// as is.
func Evaluation(err error) Error {
	return New("", err, ErrEvaluation)
}

func (e Error) Error() string {
	switch {
	case len(e.causes) == 0:
		return e.msg
	case e.msg == "":
		return e.causes[0].Error()
	default:
		return e.msg + ": " + e.causes[0].Error()
	}
}

func (e Error) Unwrap() []error {
	return e.causes
}
