package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry([]Definition{
		{Name: "msg", Aliases: []string{"m"}, MinArgs: 1, MaxArgs: Variadic},
		{Name: "wait_ack", Aliases: []string{"wa"}, MinArgs: 0, MaxArgs: 1},
		{Name: "sleep", MinArgs: 1, MaxArgs: 1},
		{Name: "infos", MinArgs: 0, MaxArgs: 0},
		{Name: "apply_to", MinArgs: 2, MaxArgs: Variadic},
		{Name: "remove_contact", MinArgs: 1, MaxArgs: 1},
	})
	require.NoError(t, err)
	return reg
}

func TestSplit_SimpleChain(t *testing.T) {
	reg := testRegistry(t)

	chain, err := Split(reg, []string{"msg", "Alice", "Hello!", "wait_ack"})
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "msg", chain[0].Def.Name)
	assert.Equal(t, []string{"Alice", "Hello!"}, chain[0].Args)
	assert.Equal(t, "wait_ack", chain[1].Def.Name)
	assert.Empty(t, chain[1].Args)
}

func TestSplit_OptionalArgTaken(t *testing.T) {
	reg := testRegistry(t)

	chain, err := Split(reg, []string{"wait_ack", "10", "infos"})
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, []string{"10"}, chain[0].Args)
	assert.Equal(t, "infos", chain[1].Def.Name)
}

// Required arguments are consumed even when they collide with a
// command name, so templates can name commands.
func TestSplit_RequiredArgMayBeCommandName(t *testing.T) {
	reg := testRegistry(t)

	chain, err := Split(reg, []string{"apply_to", "f", "remove_contact"})
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "apply_to", chain[0].Def.Name)
	assert.Equal(t, []string{"f", "remove_contact"}, chain[0].Args)
}

func TestSplit_UnknownCommand(t *testing.T) {
	reg := testRegistry(t)

	_, err := Split(reg, []string{"frobnicate"})
	var notFound *AliasNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "frobnicate", notFound.Token)
}

func TestSplit_MissingRequiredArgs(t *testing.T) {
	reg := testRegistry(t)

	_, err := Split(reg, []string{"sleep"})
	var invalid *InvalidArgumentsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "sleep", invalid.Command)
}

func TestSplit_AliasResolves(t *testing.T) {
	reg := testRegistry(t)

	chain, err := Split(reg, []string{"m", "Alice", "hi", "wa"})
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "msg", chain[0].Def.Name)
	assert.Equal(t, "wait_ack", chain[1].Def.Name)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`msg Alice hello`, []string{"msg", "Alice", "hello"}},
		{`msg Alice "hello world"`, []string{"msg", "Alice", "hello world"}},
		{`msg "Base Camp" hi`, []string{"msg", "Base Camp", "hi"}},
		{`say "quote \" inside"`, []string{"say", `quote " inside`}},
		{`  spaced   out  `, []string{"spaced", "out"}},
		{`""`, []string{""}},
		{``, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.line), tt.line)
	}
}
