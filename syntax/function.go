package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// FuncBody is the implementation of a user-registered function. It receives
// the raw values of the argument tokens in order, with grouping and comma
// tokens already removed.
type FuncBody func(args ...any) (any, error)

// Func is a user-registered function: its name, the category of the value it
// returns, the categories of its parameters, and the body that computes it.
type Func struct {
	Name string

	// Returns is the category of the token the function's result is wrapped
	// in.
	Returns Category

	// Signature is the category of each parameter. A parameter of category
	// Arguments accepts any number of comma-separated values.
	Signature []Category

	Body FuncBody
}

var ErrInvalidFunc = errors.New("invalid function")

// Shape returns the signature with a Comma placed between each pair of
// parameters. This is the token sequence that must appear between a call's
// parentheses.
func (fn Func) Shape() []Category {
	if len(fn.Signature) == 0 {
		return nil
	}

	shape := make([]Category, 0, len(fn.Signature)*2-1)
	for i := range fn.Signature {
		if i > 0 {
			shape = append(shape, Comma)
		}
		shape = append(shape, fn.Signature[i])
	}
	return shape
}

// Validate checks that fn can be registered.
func (fn Func) Validate() error {
	if strings.TrimSpace(fn.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidFunc)
	}
	if fn.Body == nil {
		return fmt.Errorf("%w: %s: no body", ErrInvalidFunc, fn.Name)
	}
	if !fn.Returns.IsValue() {
		return fmt.Errorf("%w: %s: cannot return %s", ErrInvalidFunc, fn.Name, fn.Returns)
	}
	for i, cat := range fn.Signature {
		if !cat.IsValue() && cat != Arguments {
			return fmt.Errorf("%w: %s: parameter %d cannot be %s", ErrInvalidFunc, fn.Name, i+1, cat)
		}
	}
	return nil
}

// String gives the function's call signature, for example
// "max(arguments) numeric".
func (fn Func) String() string {
	params := make([]string, len(fn.Signature))
	for i := range fn.Signature {
		params[i] = fn.Signature[i].String()
	}
	return fmt.Sprintf("%s(%s) %s", fn.Name, strings.Join(params, ", "), fn.Returns)
}
