/*
Tqc starts an interactive TunaCalc calculator session.

It optionally reads in a calculator definition file that gives variables and
scripted functions, then reads expressions and commands from stdin and prints
their results to stdout until input ends or the "QUIT" command is given.

Usage:

	tqc [flags]
	tqc [flags] -e EXPRESSION

The flags are:

	-v, --version
		Give the current version of TunaCalc and then exit.

	-f, --file FILE
		Load the given TQC definition file (DATA or MANIFEST type) before
		starting.

	-e, --eval EXPRESSION
		Evaluate EXPRESSION, print the result, and exit without starting a
		session.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

Once a session has started, each line is either a command or an expression to
evaluate. For an explanation of the commands, type "HELP" once in a session. To
exit the calculator, type "QUIT".
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/internal/tqerrors"
	"github.com/dekarrin/tunacalc/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session or while evaluating a one-shot expression.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the calculator.
	ExitInitError
)

var (
	returnCode  int = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of TunaCalc and then exit.")
	flagFile        = pflag.StringP("file", "f", "", "Load the given TQC definition file before starting.")
	flagEval        = pflag.StringP("eval", "e", "", "Evaluate the given expression, print the result, and exit.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	calc := tunacalc.New()
	if *flagFile != "" {
		if err := calc.LoadFile(*flagFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	if pflag.Lookup("eval").Changed {
		sh, err := tunacalc.NewShell(calc, nil, nil, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer sh.Close()

		output, _, err := sh.Exec(*flagEval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", tqerrors.ConsoleMessage(err))
			returnCode = ExitSessionError
			return
		}
		fmt.Println(output)
		return
	}

	sh, initErr := tunacalc.NewShell(calc, os.Stdin, os.Stdout, *flagDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer sh.Close()

	err := sh.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
