package serialdev

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// Client implements radio.Device. Each method is one request frame;
// replies that arrive as events (acks, path responses) are not waited
// for here.
var _ radio.Device = (*Client)(nil)

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	err := json.Unmarshal(data, &v)
	return v, err
}

func (c *Client) SelfInfo(ctx context.Context) (radio.SelfInfo, error) {
	data, err := c.request(ctx, "self_info", nil)
	if err != nil {
		return radio.SelfInfo{}, err
	}
	return decode[radio.SelfInfo](data)
}

func (c *Client) Battery(ctx context.Context) (radio.BatteryInfo, error) {
	data, err := c.request(ctx, "battery", nil)
	if err != nil {
		return radio.BatteryInfo{}, err
	}
	return decode[radio.BatteryInfo](data)
}

func (c *Client) Stats(ctx context.Context, kind radio.StatsKind) (radio.Stats, error) {
	data, err := c.request(ctx, "stats", map[string]any{"kind": string(kind)})
	if err != nil {
		return nil, err
	}
	return decode[radio.Stats](data)
}

func (c *Client) Reboot(ctx context.Context) error {
	_, err := c.request(ctx, "reboot", nil)
	return err
}

func (c *Client) Clock(ctx context.Context) (time.Time, error) {
	data, err := c.request(ctx, "get_time", nil)
	if err != nil {
		return time.Time{}, err
	}
	payload, err := decode[struct {
		Epoch int64 `json:"epoch"`
	}](data)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(payload.Epoch, 0), nil
}

func (c *Client) SetClock(ctx context.Context, t time.Time) error {
	_, err := c.request(ctx, "set_time", map[string]any{"epoch": t.Unix()})
	return err
}

func (c *Client) GetParam(ctx context.Context, name string) (string, error) {
	data, err := c.request(ctx, "get_param", map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	payload, err := decode[struct {
		Value string `json:"value"`
	}](data)
	return payload.Value, err
}

func (c *Client) SetParam(ctx context.Context, name, value string) error {
	_, err := c.request(ctx, "set_param", map[string]any{"name": name, "value": value})
	return err
}

func (c *Client) GetVars(ctx context.Context) (map[string]string, error) {
	data, err := c.request(ctx, "get_vars", nil)
	if err != nil {
		return nil, err
	}
	return decode[map[string]string](data)
}

func (c *Client) SetVar(ctx context.Context, name, value string) error {
	_, err := c.request(ctx, "set_var", map[string]any{"name": name, "value": value})
	return err
}

func (c *Client) ExportKey(ctx context.Context) (string, error) {
	data, err := c.request(ctx, "export_key", nil)
	if err != nil {
		return "", err
	}
	payload, err := decode[struct {
		Key string `json:"key"`
	}](data)
	return payload.Key, err
}

func (c *Client) ImportKey(ctx context.Context, keyHex string) error {
	_, err := c.request(ctx, "import_key", map[string]any{"key": keyHex})
	return err
}

func (c *Client) CardURI(ctx context.Context) (string, error) {
	data, err := c.request(ctx, "card", nil)
	if err != nil {
		return "", err
	}
	payload, err := decode[struct {
		URI string `json:"uri"`
	}](data)
	return payload.URI, err
}

func (c *Client) SendAdvert(ctx context.Context, flood bool) error {
	_, err := c.request(ctx, "advert", map[string]any{"flood": flood})
	return err
}

func (c *Client) Contacts(ctx context.Context) ([]radio.Contact, error) {
	data, err := c.request(ctx, "contacts", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]radio.Contact](data)
}

func (c *Client) ReloadContacts(ctx context.Context) error {
	_, err := c.request(ctx, "reload_contacts", nil)
	return err
}

func (c *Client) RemoveContact(ctx context.Context, contact radio.Contact) error {
	_, err := c.request(ctx, "remove_contact", map[string]any{"public_key": contact.PublicKey})
	return err
}

func (c *Client) UpdateContact(ctx context.Context, contact radio.Contact) error {
	_, err := c.request(ctx, "update_contact", contact)
	return err
}

func (c *Client) ShareContact(ctx context.Context, contact radio.Contact) error {
	_, err := c.request(ctx, "share_contact", map[string]any{"public_key": contact.PublicKey})
	return err
}

func (c *Client) ExportContact(ctx context.Context, contact radio.Contact) (string, error) {
	data, err := c.request(ctx, "export_contact", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return "", err
	}
	payload, err := decode[struct {
		URI string `json:"uri"`
	}](data)
	return payload.URI, err
}

func (c *Client) ImportContact(ctx context.Context, cardURI string) error {
	_, err := c.request(ctx, "import_contact", map[string]any{"uri": cardURI})
	return err
}

func (c *Client) DiscoverPath(ctx context.Context, contact radio.Contact) (radio.SendResult, error) {
	data, err := c.request(ctx, "disc_path", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) ResetPath(ctx context.Context, contact radio.Contact) error {
	_, err := c.request(ctx, "reset_path", map[string]any{"public_key": contact.PublicKey})
	return err
}

func (c *Client) ChangePath(ctx context.Context, contact radio.Contact, path string) error {
	_, err := c.request(ctx, "change_path", map[string]any{"public_key": contact.PublicKey, "path": path})
	return err
}

func (c *Client) SendMessage(ctx context.Context, contact radio.Contact, text string) (radio.SendResult, error) {
	data, err := c.request(ctx, "send_msg", map[string]any{"public_key": contact.PublicKey, "text": text})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) SendChannelMessage(ctx context.Context, channel int, text string) error {
	_, err := c.request(ctx, "send_chan_msg", map[string]any{"channel": channel, "text": text})
	return err
}

func (c *Client) SyncMessages(ctx context.Context) (int, error) {
	data, err := c.request(ctx, "sync_msgs", nil)
	if err != nil {
		return 0, err
	}
	payload, err := decode[struct {
		Count int `json:"count"`
	}](data)
	return payload.Count, err
}

func (c *Client) Login(ctx context.Context, contact radio.Contact, password string) (radio.SendResult, error) {
	data, err := c.request(ctx, "login", map[string]any{"public_key": contact.PublicKey, "password": password})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) Logout(ctx context.Context, contact radio.Contact) error {
	_, err := c.request(ctx, "logout", map[string]any{"public_key": contact.PublicKey})
	return err
}

func (c *Client) SendCommand(ctx context.Context, contact radio.Contact, cmd string) (radio.SendResult, error) {
	data, err := c.request(ctx, "send_cmd", map[string]any{"public_key": contact.PublicKey, "text": cmd})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestStatus(ctx context.Context, contact radio.Contact) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_status", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestTelemetry(ctx context.Context, contact radio.Contact) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_telemetry", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestMMA(ctx context.Context, contact radio.Contact, start, end time.Time) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_mma", map[string]any{
		"public_key": contact.PublicKey,
		"start":      start.Unix(),
		"end":        end.Unix(),
	})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestACL(ctx context.Context, contact radio.Contact) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_acl", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestNeighbours(ctx context.Context, contact radio.Contact) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_neighbours", map[string]any{"public_key": contact.PublicKey})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) RequestBinary(ctx context.Context, contact radio.Contact, payloadHex string) (radio.SendResult, error) {
	data, err := c.request(ctx, "req_binary", map[string]any{"public_key": contact.PublicKey, "payload": payloadHex})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) Trace(ctx context.Context, path string) (radio.SendResult, error) {
	data, err := c.request(ctx, "trace", map[string]any{"path": path})
	if err != nil {
		return radio.SendResult{}, err
	}
	return decodeSendResult(data)
}

func (c *Client) SelfTelemetry(ctx context.Context) ([]radio.TelemetryReading, error) {
	data, err := c.request(ctx, "self_telemetry", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]radio.TelemetryReading](data)
}

func (c *Client) Channels(ctx context.Context) ([]radio.Channel, error) {
	data, err := c.request(ctx, "get_channels", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]radio.Channel](data)
}

func (c *Client) SetChannel(ctx context.Context, ch radio.Channel) error {
	_, err := c.request(ctx, "set_channel", ch)
	return err
}

func (c *Client) RemoveChannel(ctx context.Context, index int) error {
	_, err := c.request(ctx, "remove_channel", map[string]any{"index": index})
	return err
}

func (c *Client) NodeDiscover(ctx context.Context) error {
	_, err := c.request(ctx, "node_discover", nil)
	return err
}

func decodeSendResult(data json.RawMessage) (radio.SendResult, error) {
	payload, err := decode[struct {
		ExpectedAck uint32 `json:"expected_ack"`
		TimeoutMS   int64  `json:"timeout_ms"`
	}](data)
	if err != nil {
		return radio.SendResult{}, err
	}
	return radio.SendResult{
		ExpectedAck: payload.ExpectedAck,
		Timeout:     time.Duration(payload.TimeoutMS) * time.Millisecond,
	}, nil
}
