package tqerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ConsoleMessage(t *testing.T) {
	cause := errors.New("cause")

	testCases := []struct {
		name   string
		input  error
		expect string
	}{
		{name: "plain error", input: cause, expect: "cause"},
		{name: "interpreter error", input: Interpreterf("try %s", "HELP"), expect: "try HELP"},
		{name: "wrapped interpreter error", input: fmt.Errorf("ctx: %w", Interpreter("shown", "hidden")), expect: "shown"},
		{name: "interpreter wrapping cause", input: WrapInterpreterf(cause, "bad %d", 1), expect: "bad 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, ConsoleMessage(tc.input))
		})
	}
}

func Test_WrapInterpreter_unwraps(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("cause")
	err := WrapInterpreter(cause, "console", "")

	assert.ErrorIs(err, cause)
	assert.Contains(err.Error(), "cause")
}
