package commands

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
	"github.com/chrstnwhlrt/meshcli/pkg/session"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testContacts() []radio.Contact {
	return []radio.Contact{
		{Name: "Alice", PublicKey: "aa11", Type: radio.TypeClient},
		{Name: "alpine-repeater", PublicKey: "bb22", Type: radio.TypeRepeater},
		{Name: "Bob", PublicKey: "cc33", Type: radio.TypeClient},
	}
}

func TestResolveContact(t *testing.T) {
	rt := &Runtime{Device: &fakeDevice{contacts: testContacts()}}
	ctx := context.Background()

	got, err := rt.ResolveContact(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "aa11", got.PublicKey)

	// Unique case-insensitive prefix.
	got, err = rt.ResolveContact(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	_, err = rt.ResolveContact(ctx, "al")
	var amb *session.AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.ElementsMatch(t, []string{"Alice", "alpine-repeater"}, amb.Matches)

	_, err = rt.ResolveContact(ctx, "nobody")
	var unk *session.UnknownError
	require.ErrorAs(t, err, &unk)
}

func TestResolveContact_ExactBeatsPrefix(t *testing.T) {
	rt := &Runtime{Device: &fakeDevice{contacts: []radio.Contact{
		{Name: "Al", PublicKey: "k1"},
		{Name: "Alfred", PublicKey: "k2"},
	}}}

	got, err := rt.ResolveContact(context.Background(), "Al")
	require.NoError(t, err)
	assert.Equal(t, "k1", got.PublicKey)
}

func TestDestination_Precedence(t *testing.T) {
	contacts := testContacts()
	rt := &Runtime{Device: &fakeDevice{contacts: contacts}}
	ctx := context.Background()

	// No token, no session: no destination.
	_, err := rt.Destination(ctx, "msg", "")
	var noDest *NoDestinationError
	require.ErrorAs(t, err, &noDest)
	assert.Equal(t, "msg", noDest.Command)

	// Session current fills in.
	rt.Nav = session.New("dev")
	_, err = rt.Nav.To("Bob", contacts, nil)
	require.NoError(t, err)
	got, err := rt.Destination(ctx, "msg", "")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	// An explicit token beats the session.
	got, err = rt.Destination(ctx, "msg", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestPendingAck(t *testing.T) {
	rt := &Runtime{}

	_, _, ok := rt.TakePendingAck()
	assert.False(t, ok)

	rt.SetPendingAck(radio.SendResult{ExpectedAck: 0xdeadbeef, Timeout: 12 * time.Second})
	code, suggested, ok := rt.TakePendingAck()
	require.True(t, ok)
	assert.Equal(t, uint32(0xdeadbeef), code)
	assert.Equal(t, 12*time.Second, suggested)

	// Taking clears it.
	_, _, ok = rt.TakePendingAck()
	assert.False(t, ok)
}

func TestContacts_CachedUntilInvalidated(t *testing.T) {
	dev := &fakeDevice{contacts: testContacts()}
	rt := &Runtime{Device: dev}
	ctx := context.Background()

	first, err := rt.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)

	dev.contacts = dev.contacts[:1]
	cached, err := rt.Contacts(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	rt.InvalidateContacts()
	fresh, err := rt.Contacts(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}
