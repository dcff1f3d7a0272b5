package serialdev

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func eventFrame(event, data string) frame {
	return frame{Event: event, Data: json.RawMessage(data)}
}

func TestDecodeEvent_Ack(t *testing.T) {
	ev := decodeEvent(eventFrame("ack", `{"code": 305419896}`))
	require.NotNil(t, ev)
	ack, ok := ev.(radio.Ack)
	require.True(t, ok)
	assert.Equal(t, uint32(0x12345678), ack.Code)
	assert.WithinDuration(t, time.Now(), ack.ReceivedAt(), time.Second)
}

func TestDecodeEvent_ContactMessage(t *testing.T) {
	ev := decodeEvent(eventFrame("msg", `{"sender_key_prefix": "aabbcc", "sender_name": "Alice", "text": "hi"}`))
	require.NotNil(t, ev)
	msg, ok := ev.(radio.ContactMessage)
	require.True(t, ok)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.Equal(t, "hi", msg.Text)
}

// An unresolved sender falls back to its key prefix.
func TestDecodeEvent_MessageSenderFallback(t *testing.T) {
	ev := decodeEvent(eventFrame("msg", `{"sender_key_prefix": "aabbcc", "text": "hi"}`))
	require.NotNil(t, ev)
	assert.Equal(t, "aabbcc", ev.(radio.ContactMessage).SenderName)
}

func TestDecodeEvent_Login(t *testing.T) {
	ok := decodeEvent(frame{Event: "login_success"})
	require.NotNil(t, ok)
	assert.Equal(t, radio.KindLoginSuccess, ok.Kind())

	failed := decodeEvent(frame{Event: "login_failed"})
	require.NotNil(t, failed)
	assert.Equal(t, radio.KindLoginFailed, failed.Kind())
}

func TestDecodeEvent_Path(t *testing.T) {
	ev := decodeEvent(eventFrame("path", `{"public_key": "aa11", "path": "1f,2e", "hops": 2}`))
	require.NotNil(t, ev)
	p, ok := ev.(radio.PathResponse)
	require.True(t, ok)
	assert.Equal(t, "aa11", p.PublicKey)
	assert.Equal(t, 2, p.Hops)
}

func TestDecodeEvent_UnknownDropped(t *testing.T) {
	assert.Nil(t, decodeEvent(frame{Event: "firmware_special"}))
}

func TestDecodeEvent_BadPayloadDropped(t *testing.T) {
	assert.Nil(t, decodeEvent(eventFrame("ack", `{"code": "not a number"`)))
}
