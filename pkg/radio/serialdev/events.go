package serialdev

import (
	"encoding/json"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// decodeEvent maps an unsolicited frame to a typed event. Unknown
// event names are logged and dropped so newer firmware doesn't break
// older clients.
func decodeEvent(f frame) radio.Event {
	meta := radio.EventMeta{At: time.Now()}

	unmarshal := func(v any) bool {
		if err := json.Unmarshal(f.Data, v); err != nil {
			logger.WarnCF("serial", "bad event payload", map[string]any{
				"event": f.Event,
				"error": err.Error(),
			})
			return false
		}
		return true
	}

	switch f.Event {
	case "advert":
		ev := radio.Advertisement{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "new_contact":
		ev := radio.NewContactAdvert{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "msg":
		ev := radio.ContactMessage{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		if ev.SenderName == "" {
			ev.SenderName = ev.SenderKeyPrefix
		}
		return ev
	case "chan_msg":
		ev := radio.ChannelMessage{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "ack":
		ev := radio.Ack{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "msgs_waiting":
		return radio.MessagesWaiting{EventMeta: meta}
	case "login_success":
		return radio.LoginResult{EventMeta: meta, Success: true}
	case "login_failed":
		return radio.LoginResult{EventMeta: meta, Success: false}
	case "path":
		ev := radio.PathResponse{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "status":
		ev := radio.StatusResponse{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "telemetry":
		ev := radio.TelemetryResponse{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	case "binary":
		ev := radio.BinaryResponse{EventMeta: meta}
		if !unmarshal(&ev) {
			return nil
		}
		return ev
	default:
		logger.DebugCF("serial", "unknown event", map[string]any{"event": f.Event})
		return nil
	}
}
