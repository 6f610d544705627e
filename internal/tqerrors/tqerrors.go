// Package tqerrors holds errors that carry a message meant for the person at
// the console in addition to the usual technical message.
package tqerrors

import (
	"errors"
	"fmt"
)

// interpreterError is an error caused by attempting to interpret console
// input. It includes a human-readable message to show at the console as well
// as a more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the console to
// describe the error.
func (e *interpreterError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new error that has both the message to show at the
// console and the technical description of the error.
func Interpreter(console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", console)
	}
	return &interpreterError{
		msg:   technical,
		human: console,
	}
}

// Interpreterf returns a new error that has a message to show at the console
// and an automatically generated Error() description.
func Interpreterf(consoleFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(consoleFormat, a...), "")
}

// WrapInterpreter returns a new error that has both the message to show at the
// console and the technical description of the error, and that wraps e.
func WrapInterpreter(e error, console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q): %v", console, e)
	}
	return &interpreterError{
		msg:   technical,
		human: console,
		wrap:  e,
	}
}

// WrapInterpreterf is WrapInterpreter with a formatted console message.
func WrapInterpreterf(e error, consoleFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(consoleFormat, a...), "")
}

// ConsoleMessage gets the message to display at the console for err. If err
// is or wraps one of the errors created in this package, its console message
// is returned. Otherwise, err.Error() is returned.
func ConsoleMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.ConsoleMessage()
	}
	return err.Error()
}
