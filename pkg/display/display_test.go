package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

type codedError struct{ code string }

func (e *codedError) Error() string     { return "it broke" }
func (e *codedError) ErrorCode() string { return e.code }

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	return obj
}

func TestError_JSONCarriesCode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true, false)

	p.Error(&codedError{code: "no_destination"})
	obj := decodeLine(t, &buf)
	assert.Equal(t, "no_destination", obj["code"])
	assert.Equal(t, "it broke", obj["error"])
}

func TestError_JSONTransportCode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true, false)

	p.Error(fmt.Errorf("%w: port gone", radio.ErrTransport))
	obj := decodeLine(t, &buf)
	assert.Equal(t, "transport_error", obj["code"])
}

func TestError_HumanMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false, false)

	p.Error(&codedError{code: "x"})
	assert.Equal(t, "error: it broke\n", buf.String())
}

func TestTimedOut(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true, false).TimedOut("wait_ack")
	var obj map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, true, obj["timed_out"])
	assert.Equal(t, "wait_ack", obj["result"])
}

func TestColorSuppressedInJSONMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true, true)

	p.Warning("careful")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestEvent_HumanMessages(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false, false)

	p.Event(radio.ContactMessage{
		EventMeta:  radio.EventMeta{At: time.Now()},
		SenderName: "Alice",
		Text:       "see you at camp",
	})
	assert.Equal(t, "Alice: see you at camp\n", buf.String())

	buf.Reset()
	p.Event(radio.ChannelMessage{Channel: 2, Text: "anyone up?"})
	assert.Equal(t, "#2: anyone up?\n", buf.String())
}

func TestContacts_HumanListing(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false, false)

	p.Contacts([]radio.Contact{
		{Name: "Alice", PublicKey: "aabbccddeeff00", Type: radio.TypeClient, OutPathLen: 2},
		{Name: "rep", PublicKey: "112233", Type: radio.TypeRepeater, OutPathLen: -1},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2 hops")
	assert.Contains(t, lines[1], "flood")
}
