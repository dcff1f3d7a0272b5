package commands

import (
	"fmt"
	"strings"
)

// Split turns a flat token stream into a chain of invocations. Each
// command consumes its required arguments unconditionally, then keeps
// taking tokens until its arity bound is reached or the next token is
// a registered command name. `msg Alice hello wait_ack` therefore
// splits into msg(Alice, hello) followed by wait_ack().
func Split(reg *Registry, tokens []string) ([]Invocation, error) {
	var chain []Invocation
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		def, ok := reg.Resolve(tok)
		if !ok {
			return nil, &AliasNotFoundError{Token: tok}
		}
		i++

		var args []string
		for len(args) < def.MinArgs && i < len(tokens) {
			args = append(args, tokens[i])
			i++
		}
		if len(args) < def.MinArgs {
			return nil, &InvalidArgumentsError{
				Command: def.Name,
				Reason:  fmt.Sprintf("expected at least %d argument(s), got %d", def.MinArgs, len(args)),
			}
		}
		for i < len(tokens) && (def.MaxArgs == Variadic || len(args) < def.MaxArgs) {
			if _, isCmd := reg.Resolve(tokens[i]); isCmd {
				break
			}
			args = append(args, tokens[i])
			i++
		}

		chain = append(chain, Invocation{
			Def:  def,
			Args: args,
			Raw:  strings.Join(append([]string{tok}, args...), " "),
		})
	}
	return chain, nil
}

// Tokenize splits a script or interactive line into tokens. Double
// quotes group words; a backslash escapes the next character inside
// quotes.
func Tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	started := false

	flush := func() {
		if started {
			tokens = append(tokens, cur.String())
			cur.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}
