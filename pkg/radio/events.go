package radio

import "time"

// EventKind tags the unsolicited events a device pushes.
type EventKind int

const (
	KindAdvertisement EventKind = iota
	KindNewContact
	KindContactMessage
	KindChannelMessage
	KindAck
	KindMessagesWaiting
	KindLoginSuccess
	KindLoginFailed
	KindPathResponse
	KindStatusResponse
	KindTelemetryResponse
	KindBinaryResponse
)

func (k EventKind) String() string {
	switch k {
	case KindAdvertisement:
		return "advertisement"
	case KindNewContact:
		return "new_contact"
	case KindContactMessage:
		return "contact_message"
	case KindChannelMessage:
		return "channel_message"
	case KindAck:
		return "ack"
	case KindMessagesWaiting:
		return "messages_waiting"
	case KindLoginSuccess:
		return "login_success"
	case KindLoginFailed:
		return "login_failed"
	case KindPathResponse:
		return "path_response"
	case KindStatusResponse:
		return "status_response"
	case KindTelemetryResponse:
		return "telemetry_response"
	case KindBinaryResponse:
		return "binary_response"
	default:
		return "unknown"
	}
}

// Event is anything the transport reader pushes outside of a
// request/response exchange.
type Event interface {
	Kind() EventKind
	ReceivedAt() time.Time
}

// EventMeta carries the arrival timestamp shared by all events.
type EventMeta struct {
	At time.Time `json:"at"`
}

func (m EventMeta) ReceivedAt() time.Time { return m.At }

// Advertisement announces a node by public key, without contact data.
type Advertisement struct {
	EventMeta
	PublicKey string `json:"public_key"`
}

func (Advertisement) Kind() EventKind { return KindAdvertisement }

// NewContactAdvert carries a full contact card heard on the air.
type NewContactAdvert struct {
	EventMeta
	Contact Contact `json:"contact"`
}

func (NewContactAdvert) Kind() EventKind { return KindNewContact }

// ContactMessage is a private message from a contact. SenderKeyPrefix
// identifies the sender; SenderName is filled in when the prefix
// matches a known contact, otherwise it is the hex prefix itself.
type ContactMessage struct {
	EventMeta
	SenderKeyPrefix string  `json:"sender_key_prefix"`
	SenderName      string  `json:"sender_name"`
	Text            string  `json:"text"`
	IsCommand       bool    `json:"is_command"`
	SNR             float64 `json:"snr,omitempty"`
}

func (ContactMessage) Kind() EventKind { return KindContactMessage }

// ChannelMessage is a message on a shared channel. Channel messages
// carry no sender identity.
type ChannelMessage struct {
	EventMeta
	Channel int     `json:"channel"`
	Text    string  `json:"text"`
	SNR     float64 `json:"snr,omitempty"`
}

func (ChannelMessage) Kind() EventKind { return KindChannelMessage }

// Ack confirms delivery of a previously sent packet. Code matches the
// ExpectedAck of the SendResult that started the exchange.
type Ack struct {
	EventMeta
	Code uint32 `json:"code"`
}

func (Ack) Kind() EventKind { return KindAck }

// MessagesWaiting signals that the device holds queued messages which
// a sync will flush.
type MessagesWaiting struct {
	EventMeta
}

func (MessagesWaiting) Kind() EventKind { return KindMessagesWaiting }

// LoginResult reports the outcome of a repeater login.
type LoginResult struct {
	EventMeta
	Success bool `json:"success"`
}

func (e LoginResult) Kind() EventKind {
	if e.Success {
		return KindLoginSuccess
	}
	return KindLoginFailed
}

// PathResponse reports a discovered path to a contact.
type PathResponse struct {
	EventMeta
	PublicKey string `json:"public_key"`
	Path      string `json:"path"`
	Hops      int    `json:"hops"`
}

func (PathResponse) Kind() EventKind { return KindPathResponse }

// StatusResponse is a repeater's reply to a status request, as opaque
// named counters.
type StatusResponse struct {
	EventMeta
	SenderKeyPrefix string           `json:"sender_key_prefix"`
	Values          map[string]int64 `json:"values"`
}

func (StatusResponse) Kind() EventKind { return KindStatusResponse }

// TelemetryResponse carries sensor readings from a remote node.
type TelemetryResponse struct {
	EventMeta
	SenderKeyPrefix string             `json:"sender_key_prefix"`
	Readings        []TelemetryReading `json:"readings"`
}

func (TelemetryResponse) Kind() EventKind { return KindTelemetryResponse }

// BinaryResponse is the raw reply to a binary request (req_binary,
// req_mma, req_acl, req_neighbours).
type BinaryResponse struct {
	EventMeta
	SenderKeyPrefix string `json:"sender_key_prefix"`
	Data            string `json:"data"` // hex
}

func (BinaryResponse) Kind() EventKind { return KindBinaryResponse }
