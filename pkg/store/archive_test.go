package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_RecordAndRecent(t *testing.T) {
	a := openTestArchive(t)
	now := time.Now()

	require.NoError(t, a.Record(Entry{Direction: DirOut, Peer: "Alice", Channel: -1, Text: "hello", At: now}))
	require.NoError(t, a.Record(Entry{Direction: DirIn, Peer: "Alice", Channel: -1, Text: "hi back", At: now.Add(time.Second)}))
	require.NoError(t, a.Record(Entry{Direction: DirIn, Peer: "#1", Channel: 1, Text: "channel chatter", At: now.Add(2 * time.Second)}))

	got, err := a.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, "channel chatter", got[2].Text)
	assert.Equal(t, 1, got[2].Channel)
	assert.WithinDuration(t, now, got[0].At, time.Second)
}

func TestArchive_RecentLimitKeepsNewest(t *testing.T) {
	a := openTestArchive(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, a.Record(Entry{
			Direction: DirIn, Peer: "Bob", Channel: -1,
			Text: fmt.Sprintf("m%d", i), At: base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := a.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest two, oldest first.
	assert.Equal(t, "m3", got[0].Text)
	assert.Equal(t, "m4", got[1].Text)
}

func TestArchive_RecentWith(t *testing.T) {
	a := openTestArchive(t)
	now := time.Now()
	require.NoError(t, a.Record(Entry{Direction: DirIn, Peer: "Alice", Channel: -1, Text: "a", At: now}))
	require.NoError(t, a.Record(Entry{Direction: DirIn, Peer: "Bob", Channel: -1, Text: "b", At: now}))
	require.NoError(t, a.Record(Entry{Direction: DirOut, Peer: "Alice", Channel: -1, Text: "c", At: now}))

	got, err := a.RecentWith("Alice", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "c", got[1].Text)
}

func TestArchive_EmptyRecent(t *testing.T) {
	a := openTestArchive(t)

	got, err := a.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
