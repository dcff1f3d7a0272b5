package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

var (
	testContacts = []radio.Contact{
		{Name: "Alice", Type: radio.TypeClient},
		{Name: "alpine-repeater", Type: radio.TypeRepeater},
		{Name: "Bob", Type: radio.TypeClient},
	}
	testChannels = []radio.Channel{
		{Index: 0, Name: "public"},
		{Index: 1, Name: "hikers"},
	}
)

func TestTo_NameAndRoot(t *testing.T) {
	n := New("dev")

	dest, err := n.To("Alice", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, AtContact, dest.Place)
	assert.Equal(t, "Alice", dest.Contact.Name)
	assert.Equal(t, "Alice> ", n.Prompt())

	dest, err = n.To("/", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, Root, dest.Place)
	assert.Equal(t, "dev> ", n.Prompt())

	// ~ is an alias for root.
	_, err = n.To("Bob", testContacts, testChannels)
	require.NoError(t, err)
	dest, err = n.To("~", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, Root, dest.Place)
}

func TestTo_Channel(t *testing.T) {
	n := New("dev")

	dest, err := n.To("hikers", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, AtChannel, dest.Place)
	assert.Equal(t, 1, dest.Channel.Index)
	assert.Equal(t, "#hikers> ", n.Prompt())
}

func TestTo_PreviousSingleSlot(t *testing.T) {
	n := New("dev")

	_, err := n.To("Alice", testContacts, testChannels)
	require.NoError(t, err)
	_, err = n.To("Bob", testContacts, testChannels)
	require.NoError(t, err)

	dest, err := n.To("..", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, "Alice", dest.Contact.Name)

	// .. swaps, so repeating it returns.
	dest, err = n.To("..", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, "Bob", dest.Contact.Name)
}

func TestTo_RootThenBack(t *testing.T) {
	n := New("dev")

	_, err := n.To("Alice", testContacts, testChannels)
	require.NoError(t, err)
	_, err = n.To("/", testContacts, testChannels)
	require.NoError(t, err)

	dest, err := n.To("..", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, AtContact, dest.Place)
	assert.Equal(t, "Alice", dest.Contact.Name)
}

func TestTo_LastSender(t *testing.T) {
	n := New("dev")

	_, err := n.To("!", testContacts, testChannels)
	require.ErrorIs(t, err, ErrNoLastSender)

	n.NoteSender("Bob")
	dest, err := n.To("!", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, "Bob", dest.Contact.Name)
}

func TestTo_PrefixResolution(t *testing.T) {
	n := New("dev")

	// Unique case-insensitive prefix.
	dest, err := n.To("bo", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, "Bob", dest.Contact.Name)

	// Ambiguous prefix leaves the state unchanged.
	_, err = n.To("al", testContacts, testChannels)
	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.ElementsMatch(t, []string{"Alice", "alpine-repeater"}, amb.Matches)
	assert.Equal(t, "Bob", n.Current().Contact.Name)

	_, err = n.To("zz", testContacts, testChannels)
	var unk *UnknownError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "zz", unk.Token)
}

func TestTo_ContactShadowsChannel(t *testing.T) {
	contacts := append([]radio.Contact{{Name: "public", Type: radio.TypeClient}}, testContacts...)
	n := New("dev")

	dest, err := n.To("public", contacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, AtContact, dest.Place)
}

func TestTo_ScopeSuffix(t *testing.T) {
	n := New("dev")

	dest, err := n.To("Alice%valley", testContacts, testChannels)
	require.NoError(t, err)
	assert.Equal(t, "Alice", dest.Contact.Name)
	assert.Equal(t, "valley", n.FloodScope())
	assert.Equal(t, "Alice%valley> ", n.Prompt())
}
