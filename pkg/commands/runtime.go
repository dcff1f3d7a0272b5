package commands

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/config"
	"github.com/chrstnwhlrt/meshcli/pkg/display"
	"github.com/chrstnwhlrt/meshcli/pkg/events"
	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
	"github.com/chrstnwhlrt/meshcli/pkg/session"
	"github.com/chrstnwhlrt/meshcli/pkg/store"
)

// Runtime carries everything a handler needs. Nav is nil outside
// interactive mode; Archive is nil when the message archive is
// disabled or failed to open.
type Runtime struct {
	Device  radio.Device
	Bus     *events.Bus
	Nav     *session.Navigator
	Cfg     *config.Config
	Archive *store.Archive
	Out     *display.Printer

	// disp re-enters dispatch for script and chained templates; set
	// by NewDispatcher.
	disp *Dispatcher

	mu          sync.Mutex
	contacts    []radio.Contact
	channels    []radio.Channel
	haveCache   bool
	pendingAck  uint32
	pendingDead time.Duration
}

// Contacts returns the cached contact snapshot, fetching it on first
// use.
func (rt *Runtime) Contacts(ctx context.Context) ([]radio.Contact, error) {
	rt.mu.Lock()
	if rt.haveCache {
		cs := rt.contacts
		rt.mu.Unlock()
		return cs, nil
	}
	rt.mu.Unlock()
	return rt.RefreshContacts(ctx)
}

// RefreshContacts re-reads the contact and channel tables from the
// device.
func (rt *Runtime) RefreshContacts(ctx context.Context) ([]radio.Contact, error) {
	cs, err := rt.Device.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	chs, err := rt.Device.Channels(ctx)
	if err != nil {
		logger.WarnCF("commands", "channel snapshot failed", map[string]any{"error": err.Error()})
		chs = nil
	}
	rt.mu.Lock()
	rt.contacts = cs
	rt.channels = chs
	rt.haveCache = true
	rt.mu.Unlock()
	return cs, nil
}

// Channels returns the cached channel snapshot.
func (rt *Runtime) Channels(ctx context.Context) ([]radio.Channel, error) {
	rt.mu.Lock()
	if rt.haveCache {
		chs := rt.channels
		rt.mu.Unlock()
		return chs, nil
	}
	rt.mu.Unlock()
	if _, err := rt.RefreshContacts(ctx); err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.channels, nil
}

// InvalidateContacts drops the snapshot after a mutation.
func (rt *Runtime) InvalidateContacts() {
	rt.mu.Lock()
	rt.haveCache = false
	rt.mu.Unlock()
}

// ResolveContact matches a name token against the contact snapshot:
// exact match first, then unique case-insensitive prefix.
func (rt *Runtime) ResolveContact(ctx context.Context, token string) (radio.Contact, error) {
	contacts, err := rt.Contacts(ctx)
	if err != nil {
		return radio.Contact{}, err
	}
	return resolveContact(token, contacts)
}

func resolveContact(token string, contacts []radio.Contact) (radio.Contact, error) {
	for _, c := range contacts {
		if c.Name == token {
			return c, nil
		}
	}
	var matches []radio.Contact
	var labels []string
	for _, c := range contacts {
		if hasFoldPrefix(c.Name, token) {
			matches = append(matches, c)
			labels = append(labels, c.Name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return radio.Contact{}, &session.UnknownError{Token: token}
	default:
		return radio.Contact{}, &session.AmbiguousError{Token: token, Matches: labels}
	}
}

// Destination resolves the target of a destination-taking command:
// the explicit token wins; otherwise the session's current contact;
// otherwise NoDestination.
func (rt *Runtime) Destination(ctx context.Context, command, token string) (radio.Contact, error) {
	if token != "" {
		return rt.ResolveContact(ctx, token)
	}
	if rt.Nav != nil {
		if dest := rt.Nav.Current(); dest.Place == session.AtContact {
			return dest.Contact, nil
		}
	}
	return radio.Contact{}, &NoDestinationError{Command: command}
}

// SetPendingAck records the correlation id of the most recent send so
// that a bare wait_ack matches exactly that ack.
func (rt *Runtime) SetPendingAck(res radio.SendResult) {
	rt.mu.Lock()
	rt.pendingAck = res.ExpectedAck
	rt.pendingDead = res.Timeout
	rt.mu.Unlock()
}

// TakePendingAck returns and clears the pending correlation id. ok is
// false when no send is outstanding.
func (rt *Runtime) TakePendingAck() (code uint32, suggested time.Duration, ok bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.pendingAck == 0 {
		return 0, 0, false
	}
	code, suggested = rt.pendingAck, rt.pendingDead
	rt.pendingAck, rt.pendingDead = 0, 0
	return code, suggested, true
}

// RecordMessage archives one message, logging instead of failing when
// the archive is unavailable.
func (rt *Runtime) RecordMessage(e store.Entry) {
	if rt.Archive == nil {
		return
	}
	if err := rt.Archive.Record(e); err != nil {
		logger.WarnCF("archive", "record failed", map[string]any{"error": err.Error()})
	}
}

func hasFoldPrefix(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
