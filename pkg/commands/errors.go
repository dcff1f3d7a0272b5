package commands

import "fmt"

// AliasNotFoundError reports a token that is not a registered command
// name or alias.
type AliasNotFoundError struct {
	Token string
}

func (e *AliasNotFoundError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Token)
}

func (e *AliasNotFoundError) ErrorCode() string { return "alias_not_found" }

// InvalidArgumentsError reports an arity or argument-format problem,
// detected before any device traffic.
type InvalidArgumentsError struct {
	Command string
	Token   string // offending token, when one can be named
	Reason  string
}

func (e *InvalidArgumentsError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: bad argument %q: %s", e.Command, e.Token, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

func (e *InvalidArgumentsError) ErrorCode() string { return "invalid_arguments" }

// NoDestinationError reports a destination-taking command run with no
// explicit name and no current session contact.
type NoDestinationError struct {
	Command string
}

func (e *NoDestinationError) Error() string {
	return fmt.Sprintf("%s: no destination: give a contact name or `to` one first", e.Command)
}

func (e *NoDestinationError) ErrorCode() string { return "no_destination" }

// ScriptError wraps a failure inside a script file with its location.
type ScriptError struct {
	File string
	Line int
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

func (e *ScriptError) ErrorCode() string { return "script_error" }
