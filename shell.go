package tunacalc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacalc/internal/command"
	"github.com/dekarrin/tunacalc/internal/input"
	"github.com/dekarrin/tunacalc/internal/tqerrors"
	"github.com/dekarrin/tunacalc/internal/util"
	"github.com/dekarrin/tunacalc/lex"
	"github.com/dekarrin/tunacalc/syntax"
	"github.com/fatih/color"
)

const consoleOutputWidth = 80

const helpText = `Type an expression to evaluate it, for example 2 * (3 + 4) or
if(x > 2, "big", "small").

Commands:
  name := expr     store the value of expr as name (or SET name = expr)
  DEPS expr        list the variables expr needs that have no value
  VARS             list stored variables
  FUNCS            list registered functions
  CLEAR            forget all stored variables
  HELP             show this help
  QUIT             leave the calculator

Built-in functions: if(cond, a, b), round(x[, places]), roundup(x),
rounddown(x), not(x).`

// Shell runs a Calculator from an interactive shell attached to an input
// stream and an output stream.
type Shell struct {
	calc        *Calculator
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
	errColor    *color.Color
}

// NewShell creates a new shell for calc ready to operate on the given input and
// output streams. It will immediately open a buffered reader on the input
// stream and a buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Line editing is used only when both are the
// console and forceDirectInput is not set.
func NewShell(calc *Calculator, inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Shell, error) {
	if calc == nil {
		calc = New()
	}
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sh := &Shell{
		calc:        calc,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
		errColor:    color.New(color.FgRed),
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		sh.in, err = input.NewInteractiveReader("", sh.completions()...)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sh.in = input.NewDirectReader(inputStream)
	}

	return sh, nil
}

// completions gives the words offered for tab completion.
func (sh *Shell) completions() []string {
	words := []string{"HELP", "QUIT", "VARS", "FUNCS", "CLEAR", "DEPS", "SET"}
	words = append(words, "if(", "round(", "roundup(", "rounddown(", "not(")
	for _, fn := range sh.calc.Functions() {
		words = append(words, fn.Name+"(")
	}
	return words
}

// Close closes all resources associated with the Shell, including any
// readline-related resources created for interactive mode.
func (sh *Shell) Close() error {
	if sh.running {
		return fmt.Errorf("cannot close a running shell")
	}

	err := sh.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and executing them
// until the QUIT command is received or input ends.
func (sh *Shell) RunUntilQuit() error {
	introMsg := "TunaCalc\n"
	if sh.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "========\n"
	introMsg += "Type HELP for help\n"

	if err := sh.write(introMsg); err != nil {
		return err
	}

	sh.running = true
	defer func() {
		sh.running = false
	}()

	for sh.running {
		cmd, err := command.Get(sh.in, sh.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		output, quit, err := sh.execute(cmd)
		if err != nil {
			consoleMessage := tqerrors.ConsoleMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := sh.write(sh.errColor.Sprint(consoleMessage) + "\n"); err != nil {
				return err
			}
		} else if output != "" {
			// multi-line output is already laid out
			if !strings.Contains(output, "\n") {
				output = rosed.Edit(output).Wrap(consoleOutputWidth).String()
			}
			if err := sh.write(output + "\n"); err != nil {
				return err
			}
		}

		if quit {
			sh.running = false
		}
	}

	return sh.write("Goodbye\n")
}

// Exec parses and runs a single line of input. It returns the text to show,
// whether the line asked the shell to quit, and any error. A returned error
// carries a console message suitable for display with tqerrors.ConsoleMessage.
func (sh *Shell) Exec(line string) (output string, quit bool, err error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return "", false, err
	}
	if cmd.Verb == "" {
		return "", false, nil
	}
	return sh.execute(cmd)
}

func (sh *Shell) execute(cmd command.Command) (string, bool, error) {
	switch cmd.Verb {
	case "QUIT":
		return "", true, nil
	case "HELP":
		return helpText, false, nil
	case "VARS":
		return sh.listVars(), false, nil
	case "FUNCS":
		return sh.listFuncs(), false, nil
	case "CLEAR":
		sh.calc.Clear()
		return "Memory cleared", false, nil
	case "DEPS":
		deps, err := sh.calc.Dependencies(cmd.Expr)
		if err != nil {
			return "", false, evalError(err)
		}
		if len(deps) == 0 {
			return "(none)", false, nil
		}
		return util.TextList(deps), false, nil
	case "SET":
		tok, err := sh.calc.EvaluateToken(cmd.Expr, nil)
		if err != nil {
			return "", false, evalError(err)
		}
		if err := sh.calc.Store(cmd.Name, tok); err != nil {
			return "", false, tqerrors.WrapInterpreterf(err, "I can't store a value as %q", cmd.Name)
		}
		return fmt.Sprintf("%s = %s", lex.Fold(cmd.Name), tok), false, nil
	case "EVAL":
		tok, err := sh.calc.EvaluateToken(cmd.Expr, nil)
		if err != nil {
			return "", false, evalError(err)
		}
		return tok.String(), false, nil
	default:
		return "", false, tqerrors.Interpreterf("I don't know how to %s", cmd.Verb)
	}
}

func (sh *Shell) listVars() string {
	mem := sh.calc.Memory()
	if len(mem) == 0 {
		return "(no variables)"
	}

	names := make([]string, 0, len(mem))
	for name := range mem {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteRune('\n')
		}
		tok, _ := syntax.ValueOf(mem[name])
		sb.WriteString(fmt.Sprintf("%s = %s", name, tok))
	}
	return sb.String()
}

func (sh *Shell) listFuncs() string {
	fns := sh.calc.Functions()
	if len(fns) == 0 {
		return "(no functions)"
	}

	lines := make([]string, len(fns))
	for i := range fns {
		lines[i] = fns[i].String()
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// evalError gives err a console message. Syntax errors show the offending
// text with a cursor under the problem.
func evalError(err error) error {
	var synErr lex.SyntaxError
	if errors.As(err, &synErr) {
		return tqerrors.WrapInterpreter(err, synErr.FullMessage(), err.Error())
	}
	return tqerrors.WrapInterpreter(err, err.Error(), err.Error())
}

func (sh *Shell) write(s string) error {
	if _, err := sh.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sh.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
