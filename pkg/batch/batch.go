// Package batch runs one command template against every contact
// matching a filter. Per-contact failures are collected, not fatal;
// only a broken transport aborts the run.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/filter"
	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// Outcome is the result of dispatching the template to one contact.
type Outcome struct {
	Contact radio.Contact
	Err     error
}

// DispatchFunc applies the command template to one contact.
type DispatchFunc func(ctx context.Context, contact radio.Contact, template []string) error

// Run parses expr once, walks contacts in list order, and dispatches
// the template to every match. It returns one Outcome per match. The
// returned error is non-nil only for a filter parse failure or a
// transport-level failure, both of which abort the run.
func Run(ctx context.Context, expr string, template []string, contacts []radio.Contact, dispatch DispatchFunc) ([]Outcome, error) {
	f, err := filter.Parse(expr)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var outcomes []Outcome
	for _, c := range contacts {
		if !f.Match(c, now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		err := dispatch(ctx, c, template)
		outcomes = append(outcomes, Outcome{Contact: c, Err: err})
		if errors.Is(err, radio.ErrTransport) {
			logger.ErrorCF("batch", "transport failed, aborting", map[string]any{"contact": c.Name})
			return outcomes, err
		}
	}
	return outcomes, nil
}
