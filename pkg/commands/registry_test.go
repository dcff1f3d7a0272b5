package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Definition{
		{Name: "msg", Aliases: []string{"m"}},
		{Name: "mute", Aliases: []string{"m"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `alias "m"`)
}

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewRegistry([]Definition{
		{Name: "msg", Aliases: []string{"m", "{"}},
	})
	require.NoError(t, err)

	for _, tok := range []string{"msg", "m", "{"} {
		def, ok := reg.Resolve(tok)
		require.True(t, ok, tok)
		assert.Equal(t, "msg", def.Name, tok)
	}

	_, ok := reg.Resolve("MSG") // lookup is case-sensitive
	assert.False(t, ok)
	_, ok = reg.Resolve("nope")
	assert.False(t, ok)
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	// Spot-check the alias table, including the brace shorthands.
	for alias, want := range map[string]string{
		"i":   "infos",
		"{":   "msg",
		"}":   "wait_ack",
		"]":   "wmt8",
		"[":   "cmd",
		"at":  "apply_to",
		"lc":  "contacts",
		"dch": "public",
		"wmt": "trywait_msg",
	} {
		def, ok := reg.Resolve(alias)
		require.True(t, ok, alias)
		assert.Equal(t, want, def.Name, alias)
	}

	for _, def := range reg.All() {
		assert.NotNil(t, def.Handler, def.Name)
		if def.MaxArgs != Variadic {
			assert.GreaterOrEqual(t, def.MaxArgs, def.MinArgs, def.Name)
		}
	}
}
