package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/filter"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func fleet(now time.Time) []radio.Contact {
	return []radio.Contact{
		{Name: "Alice", Type: radio.TypeClient, OutPathLen: 1, LastModified: now.Add(-time.Hour)},
		{Name: "OldRep", Type: radio.TypeRepeater, OutPathLen: -1, LastModified: now.Add(-72 * time.Hour)},
		{Name: "Bob", Type: radio.TypeClient, OutPathLen: -1, LastModified: now.Add(-30 * time.Minute)},
		{Name: "Sensor", Type: radio.TypeSensor, OutPathLen: 0, LastModified: now.Add(-96 * time.Hour)},
	}
}

func TestRun_DispatchesToMatchesInOrder(t *testing.T) {
	var seen []string
	outcomes, err := Run(context.Background(), "t=1", []string{"send", "hi"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error {
			seen = append(seen, c.Name)
			assert.Equal(t, []string{"send", "hi"}, template)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, seen)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
}

func TestRun_PerContactErrorsCollected(t *testing.T) {
	failBob := errors.New("no ack")
	outcomes, err := Run(context.Background(), "t=1", []string{"remove_contact"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error {
			if c.Name == "Bob" {
				return failBob
			}
			return nil
		})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, failBob)
}

func TestRun_TransportErrorAborts(t *testing.T) {
	calls := 0
	outcomes, err := Run(context.Background(), "all", []string{"send", "hi"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error {
			calls++
			if calls == 2 {
				return fmt.Errorf("%w: port gone", radio.ErrTransport)
			}
			return nil
		})
	require.ErrorIs(t, err, radio.ErrTransport)
	assert.Equal(t, 2, calls)
	assert.Len(t, outcomes, 2)
}

func TestRun_BadFilterDispatchesNothing(t *testing.T) {
	outcomes, err := Run(context.Background(), "u<oops", []string{"send", "hi"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error {
			t.Fatal("dispatch must not run")
			return nil
		})
	var perr *filter.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Nil(t, outcomes)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Run(ctx, "all", []string{"send", "hi"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
}

func TestRun_NoMatches(t *testing.T) {
	outcomes, err := Run(context.Background(), "t=3", []string{"send", "hi"}, fleet(time.Now()),
		func(ctx context.Context, c radio.Contact, template []string) error {
			t.Fatal("dispatch must not run")
			return nil
		})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
