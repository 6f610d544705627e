// Package command defines calculator shell command data types and handles
// parsing of commands from input sources.
package command

// Command is a valid command received from a shell input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as "EVAL",
	// "SET", "VARS", or "QUIT". Some verbs may be typed in shorter or other
	// forms, for instance "EXIT" or "Q" instead of "QUIT", and for all those
	// cases they result in a Command with the canonical verb.
	Verb string

	// Name is the variable being assigned by a SET command.
	Name string

	// Expr is the expression text for EVAL, SET, and DEPS commands.
	Expr string
}
