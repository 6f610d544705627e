package command

import (
	"regexp"
	"strings"

	"github.com/dekarrin/tunacalc/internal/tqerrors"
)

var (
	// VerbAliases maps alternate verbs (which must be the first word of a
	// command) to their canonical forms. They are all uppercase.
	VerbAliases = map[string]string{
		"EXIT":      "QUIT",
		"Q":         "QUIT",
		"BYE":       "QUIT",
		"?":         "HELP",
		"/?":        "HELP",
		"H":         "HELP",
		"LS":        "VARS",
		"VARIABLES": "VARS",
		"FUNCTIONS": "FUNCS",
		"RESET":     "CLEAR",
		"LET":       "SET",
	}

	// bareVerbs are verbs that take no arguments. When one of them is followed
	// by more text the whole line is treated as an expression, so that a
	// variable may share a name with a verb.
	bareVerbs = map[string]bool{
		"QUIT":  true,
		"HELP":  true,
		"VARS":  true,
		"FUNCS": true,
		"CLEAR": true,
	}

	assignRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:=\s*(.*)$`)
	setRegex    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
)

// Parse parses a command from the given line of text. If it cannot, a non-nil
// error is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned along with the zero value Command.
func Parse(toParse string) (Command, error) {
	line := strings.TrimSpace(toParse)
	if line == "" {
		return Command{}, nil
	}

	// name := expr is assignment shorthand
	if m := assignRegex.FindStringSubmatch(line); m != nil {
		return setCommand(m[1], m[2])
	}

	fields := strings.Fields(line)
	verb := strings.ToUpper(fields[0])
	if canon, ok := VerbAliases[verb]; ok {
		verb = canon
	}
	rest := strings.TrimSpace(line[len(fields[0]):])

	if bareVerbs[verb] {
		if rest == "" {
			return Command{Verb: verb}, nil
		}
		return Command{Verb: "EVAL", Expr: line}, nil
	}

	switch verb {
	case "SET":
		m := setRegex.FindStringSubmatch(rest)
		if m == nil {
			return Command{}, tqerrors.Interpreterf("I need a variable and a value, like %s x = 2", strings.ToUpper(fields[0]))
		}
		return setCommand(m[1], m[2])
	case "DEPS":
		if rest == "" {
			return Command{}, tqerrors.Interpreterf("I need an expression to find the variables of")
		}
		return Command{Verb: "DEPS", Expr: rest}, nil
	default:
		return Command{Verb: "EVAL", Expr: line}, nil
	}
}

func setCommand(name, expr string) (Command, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Command{}, tqerrors.Interpreterf("I need a value to give %s", name)
	}
	return Command{Verb: "SET", Name: name, Expr: expr}, nil
}
