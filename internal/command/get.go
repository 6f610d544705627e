package command

import (
	"bufio"
	"fmt"

	"github.com/dekarrin/tunacalc/internal/tqerrors"
)

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single line of user input. It blocks until one is
	// ready. When error is io.EOF, the string is always empty. If EOF was
	// encountered on a call but some input was received, the input is
	// returned with a nil error and the next call returns "", io.EOF.
	ReadCommand() (string, error)

	// Close performs any operations required to clean up the resources
	// created by the Reader. It should be called once when the Reader is no
	// longer needed.
	Close() error
}

// Get obtains a single command by reading lines from the provided Reader
// until one parses. Parse errors are reported to ostream and do not end the
// read.
//
// This does not check if the command can be executed, only that a Command
// can be parsed from the user input.
func Get(cmdStream Reader, ostream *bufio.Writer) (Command, error) {
	for {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := Parse(input)
		if err != nil {
			errMsg := fmt.Sprintf("%v\nTry HELP for valid commands\n", tqerrors.ConsoleMessage(err))
			if _, err := ostream.WriteString(errMsg); err != nil {
				return cmd, fmt.Errorf("could not write output: %w", err)
			}
			if err := ostream.Flush(); err != nil {
				return cmd, fmt.Errorf("could not flush output: %w", err)
			}
			continue
		}

		if cmd.Verb != "" {
			return cmd, nil
		}
	}
}
