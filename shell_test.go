package tunacalc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/tunacalc/internal/tqerrors"
	"github.com/dekarrin/tunacalc/lex"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	out := &bytes.Buffer{}
	sh, err := NewShell(New(), strings.NewReader(input), out, true)
	require.NoError(t, err)
	t.Cleanup(func() { sh.Close() })
	return sh, out
}

func Test_Shell_Exec(t *testing.T) {
	testCases := []struct {
		name         string
		lines        []string
		expectOutput string
		expectQuit   bool
	}{
		{name: "expression", lines: []string{"1 + 2"}, expectOutput: "3"},
		{name: "string result", lines: []string{`if(1 > 2, "yes", "no")`}, expectOutput: `"no"`},
		{name: "blank line", lines: []string{"   "}, expectOutput: ""},
		{name: "assign", lines: []string{"x := 4 * 2"}, expectOutput: "x = 8"},
		{name: "assigned value is used", lines: []string{"x := 4 * 2", "x + 1"}, expectOutput: "9"},
		{name: "set verb", lines: []string{`SET Name = "fish"`}, expectOutput: `name = "fish"`},
		{name: "let alias", lines: []string{"let y = true"}, expectOutput: "y = true"},
		{name: "vars", lines: []string{"b := 2", "a := 1", "VARS"}, expectOutput: "a = 1\nb = 2"},
		{name: "no vars", lines: []string{"vars"}, expectOutput: "(no variables)"},
		{name: "clear", lines: []string{"a := 1", "clear", "vars"}, expectOutput: "(no variables)"},
		{name: "deps", lines: []string{"x := 1", "DEPS x + y * z"}, expectOutput: "y and z"},
		{name: "no deps", lines: []string{"DEPS 1 + 1"}, expectOutput: "(none)"},
		{name: "no funcs", lines: []string{"funcs"}, expectOutput: "(no functions)"},
		{name: "help", lines: []string{"help"}, expectOutput: helpText},
		{name: "quit", lines: []string{"quit"}, expectQuit: true},
		{name: "quit alias", lines: []string{"bye"}, expectQuit: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			sh, _ := newTestShell(t, "")

			var output string
			var quit bool
			for _, line := range tc.lines {
				var err error
				output, quit, err = sh.Exec(line)
				if !assert.NoError(err) {
					return
				}
			}

			assert.Equal(tc.expectOutput, output)
			assert.Equal(tc.expectQuit, quit)
		})
	}
}

func Test_Shell_Exec_errors(t *testing.T) {
	testCases := []struct {
		name          string
		line          string
		expectErr     error
		expectConsole string
	}{
		{
			name:          "unbound variable",
			line:          "y + 1",
			expectErr:     ErrUnboundVariable,
			expectConsole: "no value for variable y",
		},
		{
			name:          "syntax error shows cursor",
			line:          "1 + $",
			expectErr:     lex.ErrSyntax,
			expectConsole: "1 + $\n    ^\nsyntax error: around line 1, char 5: unexpected character '$'",
		},
		{
			name:          "set without value",
			line:          "SET x",
			expectConsole: "I need a variable and a value, like SET x = 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			sh, _ := newTestShell(t, "")

			_, _, err := sh.Exec(tc.line)

			if !assert.Error(err) {
				return
			}
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
			}
			assert.Equal(tc.expectConsole, tqerrors.ConsoleMessage(err))
		})
	}
}

func Test_Shell_RunUntilQuit(t *testing.T) {
	assert := assert.New(t)
	sh, out := newTestShell(t, "1 + 1\nx := 3\n\nx * 2\nquit\nx\n")

	err := sh.RunUntilQuit()

	assert.NoError(err)
	output := out.String()
	assert.Contains(output, "(direct input mode)\n")
	assert.Contains(output, "\n2\nx = 3\n6\nGoodbye\n")
}

func Test_Shell_RunUntilQuit_endOfInput(t *testing.T) {
	assert := assert.New(t)
	sh, out := newTestShell(t, "2 * 21")

	err := sh.RunUntilQuit()

	assert.NoError(err)
	assert.True(strings.HasSuffix(out.String(), "42\nGoodbye\n"))
}
