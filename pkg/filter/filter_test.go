package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func contact(name string, typ radio.ContactType, pathLen int, age time.Duration, now time.Time) radio.Contact {
	return radio.Contact{
		Name:         name,
		Type:         typ,
		OutPathLen:   pathLen,
		LastModified: now.Add(-age),
	}
}

func TestParse_Empty(t *testing.T) {
	now := time.Now()
	c := contact("Any", radio.TypeClient, 3, time.Hour, now)

	for _, expr := range []string{"", "all", "all,all", " , "} {
		f, err := Parse(expr)
		require.NoError(t, err, expr)
		assert.True(t, f.Match(c, now), expr)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		expr string
		pos  int
	}{
		{"x", 0},
		{"t=abc", 0},
		{"h<", 0},
		{"u<", 0},
		{"u<-5", 0},
		{"u<2w", 0},
		{"t=1,bogus", 1},
		{"d,f,h<x", 2},
	}
	for _, tt := range tests {
		_, err := Parse(tt.expr)
		require.Error(t, err, tt.expr)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, tt.expr)
		assert.Equal(t, tt.pos, perr.Pos, tt.expr)
	}
}

func TestMatch_Clauses(t *testing.T) {
	now := time.Now()
	direct := contact("Direct", radio.TypeClient, 2, 30*time.Minute, now)
	flood := contact("Flood", radio.TypeRepeater, -1, 3*24*time.Hour, now)

	tests := []struct {
		expr    string
		contact radio.Contact
		want    bool
	}{
		{"t=1", direct, true},
		{"t=2", direct, false},
		{"t=2", flood, true},
		{"d", direct, true},
		{"d", flood, false},
		{"f", flood, true},
		{"f", direct, false},
		{"h=2", direct, true},
		{"h<3", direct, true},
		{"h<2", direct, false},
		{"h>1", direct, true},
		{"h>2", direct, false},
		{"u<2d", flood, true},  // older than two days
		{"u<2d", direct, false},
		{"u>1h", direct, true}, // newer than one hour
		{"u>1h", flood, false},
		{"u<10m", direct, true},
		{"t=1,d,u>1h", direct, true},
		{"t=1,f", direct, false},
	}
	for _, tt := range tests {
		f, err := Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, f.Match(tt.contact, now), "%s vs %s", tt.expr, tt.contact.Name)
	}
}

// d and f are shorthands for hop comparisons against zero.
func TestMatch_ReachabilityShorthands(t *testing.T) {
	now := time.Now()
	for _, pathLen := range []int{-1, 0, 1, 7} {
		c := contact("C", radio.TypeClient, pathLen, time.Minute, now)

		d, err := Parse("d")
		require.NoError(t, err)
		hmin, err := Parse("h>-1")
		require.NoError(t, err)
		assert.Equal(t, hmin.Match(c, now), d.Match(c, now), "pathLen=%d", pathLen)

		f, err := Parse("f")
		require.NoError(t, err)
		hmax, err := Parse("h<0")
		require.NoError(t, err)
		assert.Equal(t, hmax.Match(c, now), f.Match(c, now), "pathLen=%d", pathLen)
	}
}

func TestMatch_ClauseOrderIrrelevant(t *testing.T) {
	now := time.Now()
	contacts := []radio.Contact{
		contact("A", radio.TypeClient, 1, time.Minute, now),
		contact("B", radio.TypeRepeater, -1, 48*time.Hour, now),
		contact("C", radio.TypeClient, -1, 10*time.Hour, now),
	}

	a, err := Parse("t=1,f,u<1h")
	require.NoError(t, err)
	b, err := Parse("u<1h,f,t=1")
	require.NoError(t, err)

	for _, c := range contacts {
		assert.Equal(t, a.Match(c, now), b.Match(c, now), c.Name)
	}
}

func TestSelect_PreservesOrder(t *testing.T) {
	now := time.Now()
	contacts := []radio.Contact{
		contact("Old1", radio.TypeClient, 0, 3*24*time.Hour, now),
		contact("New1", radio.TypeClient, 0, time.Hour, now),
		contact("Old2", radio.TypeRepeater, -1, 5*24*time.Hour, now),
	}

	f, err := Parse("u<2d")
	require.NoError(t, err)
	got := f.Select(contacts, now)
	require.Len(t, got, 2)
	assert.Equal(t, "Old1", got[0].Name)
	assert.Equal(t, "Old2", got[1].Name)
}

func TestParseDuration_Suffixes(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30", 30 * time.Second},
		{"45s", 45 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"2d", 48 * time.Hour},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
