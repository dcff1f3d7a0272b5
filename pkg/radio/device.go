package radio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTransport marks a failure of the link itself (port gone, read
// loop dead). Callers treat it as fatal, unlike per-command device
// errors.
var ErrTransport = errors.New("radio transport failed")

// DeviceError is a command-level failure reported by the device. It is
// passed through to the caller unchanged.
type DeviceError struct {
	Op     string
	Detail string
}

func (e *DeviceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("device rejected %s", e.Op)
	}
	return fmt.Sprintf("device rejected %s: %s", e.Op, e.Detail)
}

func (e *DeviceError) ErrorCode() string { return "device_error" }

// Device is the command surface of a connected companion radio. All
// blocking operations take a context; cancellation abandons the
// exchange but leaves the link usable.
//
// Unsolicited traffic (acks, incoming messages, adverts) is not
// returned here: the transport pushes it as Events to whatever sink
// was attached at construction.
type Device interface {
	// Identity and health.
	SelfInfo(ctx context.Context) (SelfInfo, error)
	Battery(ctx context.Context) (BatteryInfo, error)
	Stats(ctx context.Context, kind StatsKind) (Stats, error)
	Reboot(ctx context.Context) error

	// Clock.
	Clock(ctx context.Context) (time.Time, error)
	SetClock(ctx context.Context, t time.Time) error

	// Tunables (frequency, tx power, name, lat/lon, radio params).
	GetParam(ctx context.Context, name string) (string, error)
	SetParam(ctx context.Context, name, value string) error

	// Custom firmware variables.
	GetVars(ctx context.Context) (map[string]string, error)
	SetVar(ctx context.Context, name, value string) error

	// Identity key material and the shareable node card URI.
	ExportKey(ctx context.Context) (string, error)
	ImportKey(ctx context.Context, keyHex string) error
	CardURI(ctx context.Context) (string, error)

	// Self-advertisement. Flood adverts propagate beyond direct
	// neighbours.
	SendAdvert(ctx context.Context, flood bool) error

	// Contact table.
	Contacts(ctx context.Context) ([]Contact, error)
	ReloadContacts(ctx context.Context) error
	RemoveContact(ctx context.Context, c Contact) error
	UpdateContact(ctx context.Context, c Contact) error
	ShareContact(ctx context.Context, c Contact) error
	ExportContact(ctx context.Context, c Contact) (string, error)
	ImportContact(ctx context.Context, cardURI string) error

	// Routing paths.
	DiscoverPath(ctx context.Context, c Contact) (SendResult, error)
	ResetPath(ctx context.Context, c Contact) error
	ChangePath(ctx context.Context, c Contact, path string) error

	// Messaging. SendResult tells the caller which ack code to wait
	// for and the device's suggested timeout.
	SendMessage(ctx context.Context, c Contact, text string) (SendResult, error)
	SendChannelMessage(ctx context.Context, channel int, text string) error
	SyncMessages(ctx context.Context) (int, error)

	// Repeater / room server sessions.
	Login(ctx context.Context, c Contact, password string) (SendResult, error)
	Logout(ctx context.Context, c Contact) error
	SendCommand(ctx context.Context, c Contact, cmd string) (SendResult, error)

	// Remote requests answered by events.
	RequestStatus(ctx context.Context, c Contact) (SendResult, error)
	RequestTelemetry(ctx context.Context, c Contact) (SendResult, error)
	RequestMMA(ctx context.Context, c Contact, start, end time.Time) (SendResult, error)
	RequestACL(ctx context.Context, c Contact) (SendResult, error)
	RequestNeighbours(ctx context.Context, c Contact) (SendResult, error)
	RequestBinary(ctx context.Context, c Contact, payloadHex string) (SendResult, error)
	Trace(ctx context.Context, path string) (SendResult, error)

	// Local telemetry.
	SelfTelemetry(ctx context.Context) ([]TelemetryReading, error)

	// Channel slots.
	Channels(ctx context.Context) ([]Channel, error)
	SetChannel(ctx context.Context, ch Channel) error
	RemoveChannel(ctx context.Context, index int) error

	// Zero-hop discovery probe.
	NodeDiscover(ctx context.Context) error

	Close() error
}
