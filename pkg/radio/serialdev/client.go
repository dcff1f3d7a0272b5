// Package serialdev drives a companion radio over a serial link. The
// wire format is newline-delimited JSON frames: requests carry a
// correlation id, replies echo it, and everything without an id is an
// unsolicited event pushed to the sink. Framing stays inside this
// package; callers only see radio.Device.
package serialdev

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"
	"golang.org/x/time/rate"

	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// EventSink receives unsolicited events from the reader goroutine.
type EventSink interface {
	Publish(radio.Event)
}

// frame is one line on the wire, in either direction.
type frame struct {
	ID    string          `json:"id,omitempty"`
	Cmd   string          `json:"cmd,omitempty"`
	Args  json.RawMessage `json:"args,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

const requestTimeout = 10 * time.Second

// Client is a radio.Device over a serial port.
type Client struct {
	port serial.Port
	sink EventSink

	// LoRa airtime is scarce; outbound frames are paced.
	limiter *rate.Limiter

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan frame
	closed  bool
	readErr error
}

// ListPorts returns the serial ports present on this host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// Open connects to the device and starts the reader goroutine.
func Open(portName string, baud int, sink EventSink) (*Client, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", radio.ErrTransport, portName, err)
	}

	c := &Client{
		port:    port,
		sink:    sink,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 4),
		pending: make(map[string]chan frame),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.port)
	scanner.Buffer(make([]byte, 0, 64*1024), 512*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var f frame
		if err := json.Unmarshal(line, &f); err != nil {
			logger.WarnCF("serial", "unparseable frame", map[string]any{"error": err.Error()})
			continue
		}
		if f.ID != "" {
			c.deliverReply(f)
			continue
		}
		if ev := decodeEvent(f); ev != nil {
			c.sink.Publish(ev)
		}
	}

	err := scanner.Err()
	if err == nil {
		err = fmt.Errorf("port closed")
	}
	c.mu.Lock()
	c.readErr = fmt.Errorf("%w: %v", radio.ErrTransport, err)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

func (c *Client) deliverReply(f frame) {
	c.mu.Lock()
	ch, ok := c.pending[f.ID]
	if ok {
		delete(c.pending, f.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- f
	}
}

// request sends one correlated frame and waits for its reply.
func (c *Client) request(ctx context.Context, cmd string, args any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.readErr != nil {
		err := c.readErr
		c.mu.Unlock()
		return nil, err
	}
	id := uuid.NewString()
	ch := make(chan frame, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	cleanup := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			cleanup()
			return nil, err
		}
		raw = data
	}

	if err := c.send(ctx, frame{ID: id, Cmd: cmd, Args: raw}); err != nil {
		cleanup()
		return nil, err
	}

	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()
	select {
	case reply, ok := <-ch:
		if !ok {
			c.mu.Lock()
			err := c.readErr
			c.mu.Unlock()
			return nil, err
		}
		if reply.Error != "" {
			return nil, &radio.DeviceError{Op: cmd, Detail: reply.Error}
		}
		return reply.Data, nil
	case <-timer.C:
		cleanup()
		return nil, &radio.DeviceError{Op: cmd, Detail: "no reply from device"}
	case <-ctx.Done():
		cleanup()
		return nil, ctx.Err()
	}
}

func (c *Client) send(ctx context.Context, f frame) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.port.Write(data); err != nil {
		return fmt.Errorf("%w: write: %v", radio.ErrTransport, err)
	}
	return nil
}

// Close shuts the port; the reader loop exits on the resulting read
// error.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.port.Close()
}
