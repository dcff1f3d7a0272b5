package commands

import "context"

// Variadic marks a definition that accepts any number of trailing
// arguments.
const Variadic = -1

// Handler executes one parsed invocation against the runtime.
type Handler func(ctx context.Context, rt *Runtime, inv Invocation) error

// Definition declares one command: its canonical name, aliases, arity
// bounds, and handler. The command set is closed and built once at
// startup.
type Definition struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	MinArgs     int
	MaxArgs     int // Variadic for unbounded
	Handler     Handler
}

// Invocation is one command ready to execute: the resolved definition
// plus its positional arguments and the raw source for error
// reporting.
type Invocation struct {
	Def  *Definition
	Args []string
	Raw  string
}
