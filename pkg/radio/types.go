package radio

import "time"

// ContactType classifies a remote node. The numeric values match the
// companion-radio wire encoding and the `t=` filter clause.
type ContactType int8

const (
	TypeUnknown  ContactType = 0
	TypeClient   ContactType = 1
	TypeRepeater ContactType = 2
	TypeRoom     ContactType = 3
	TypeSensor   ContactType = 4
)

func (t ContactType) String() string {
	switch t {
	case TypeClient:
		return "client"
	case TypeRepeater:
		return "repeater"
	case TypeRoom:
		return "room"
	case TypeSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// Chattable reports whether free text sent to this contact type is a
// private message (as opposed to a remote command).
func (t ContactType) Chattable() bool {
	return t == TypeClient || t == TypeSensor || t == TypeUnknown
}

// Contact is a known remote node. OutPathLen is the signed hop count:
// negative means flood-only reachability, zero or more is the direct
// path length.
type Contact struct {
	Name         string      `json:"name"`
	PublicKey    string      `json:"public_key"` // hex
	Type         ContactType `json:"type"`
	OutPathLen   int         `json:"out_path_len"`
	OutPath      string      `json:"out_path,omitempty"` // comma-separated hex hop prefixes
	Flags        uint8       `json:"flags"`
	LastAdvert   time.Time   `json:"last_advert"`
	LastModified time.Time   `json:"last_modified"`
	Latitude     float64     `json:"latitude,omitempty"`
	Longitude    float64     `json:"longitude,omitempty"`
}

// KeyPrefix returns the short hex prefix used to identify the contact
// in routed packets.
func (c Contact) KeyPrefix() string {
	if len(c.PublicKey) > 12 {
		return c.PublicKey[:12]
	}
	return c.PublicKey
}

// Channel is one of the device's shared-key channels (slot 0 is the
// public channel).
type Channel struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Key   string `json:"key,omitempty"` // hex, empty when unset
}

// SelfInfo describes the local device.
type SelfInfo struct {
	Name            string  `json:"name"`
	PublicKey       string  `json:"public_key"`
	FirmwareVersion string  `json:"firmware_version"`
	Model           string  `json:"model,omitempty"`
	Frequency       float64 `json:"frequency,omitempty"`
	TxPower         int     `json:"tx_power,omitempty"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
}

// BatteryInfo is a battery status snapshot.
type BatteryInfo struct {
	Millivolts int `json:"millivolts"`
	Percent    int `json:"percent"`
}

// StatsKind selects which statistics block to request.
type StatsKind string

const (
	StatsCore    StatsKind = "core"
	StatsRadio   StatsKind = "radio"
	StatsPackets StatsKind = "packets"
)

// Stats is an opaque set of counters keyed by name; the set depends on
// the requested kind and the firmware.
type Stats map[string]int64

// TelemetryReading is one Cayenne-LPP style sensor reading.
type TelemetryReading struct {
	Channel int     `json:"channel"`
	Type    int     `json:"type"`
	Value   float64 `json:"value"`
}

// SendResult is the device's immediate response to a routed send: the
// ack code it expects back and how long it suggests waiting for it.
type SendResult struct {
	ExpectedAck uint32        `json:"expected_ack"`
	Timeout     time.Duration `json:"timeout"`
}
