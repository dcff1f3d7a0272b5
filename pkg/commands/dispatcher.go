package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chrstnwhlrt/meshcli/pkg/logger"
)

// Dispatcher validates and executes invocations against the runtime.
type Dispatcher struct {
	reg *Registry
	rt  *Runtime
}

func NewDispatcher(reg *Registry, rt *Runtime) *Dispatcher {
	d := &Dispatcher{reg: reg, rt: rt}
	rt.disp = d
	return d
}

// Registry exposes the alias table, for completion.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Runtime exposes the shared runtime.
func (d *Dispatcher) Runtime() *Runtime { return d.rt }

// Dispatch validates arity and runs one invocation. Validation
// happens before any device call.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) error {
	def := inv.Def
	if len(inv.Args) < def.MinArgs {
		return &InvalidArgumentsError{
			Command: def.Name,
			Reason:  fmt.Sprintf("expected at least %d argument(s), got %d", def.MinArgs, len(inv.Args)),
		}
	}
	if def.MaxArgs != Variadic && len(inv.Args) > def.MaxArgs {
		return &InvalidArgumentsError{
			Command: def.Name,
			Token:   inv.Args[def.MaxArgs],
			Reason:  fmt.Sprintf("expected at most %d argument(s)", def.MaxArgs),
		}
	}

	logger.DebugCF("dispatch", def.Name, map[string]any{"args": strings.Join(inv.Args, " ")})
	return def.Handler(ctx, d.rt, inv)
}

// RunChain splits a token stream into a chain and executes it in
// order. The first error aborts the remaining steps. A wait that
// times out is an expected outcome and does not abort.
func (d *Dispatcher) RunChain(ctx context.Context, tokens []string) error {
	chain, err := Split(d.reg, tokens)
	if err != nil {
		return err
	}
	for _, inv := range chain {
		if err := d.Dispatch(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

// RunLine tokenizes one script or interactive line and runs it as a
// chain.
func (d *Dispatcher) RunLine(ctx context.Context, line string) error {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}
	return d.RunChain(ctx, tokens)
}

// RunScript executes a script file: one chain per line, # comments
// and blank lines skipped. The first failing line aborts the script.
func (d *Dispatcher) RunScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := d.RunLine(ctx, line); err != nil {
			return &ScriptError{File: path, Line: lineNo, Err: err}
		}
	}
	return scanner.Err()
}
