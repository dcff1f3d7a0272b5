package events

import (
	"context"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// WaitStatus reports how a wait ended. TimedOut and Cancelled are
// ordinary outcomes, not errors.
type WaitStatus int

const (
	Delivered WaitStatus = iota
	TimedOut
	Cancelled
)

func (s WaitStatus) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case TimedOut:
		return "timed_out"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Wait blocks until a matching event arrives, the timeout elapses, or
// ctx is cancelled. Buffered events are consumed first, oldest first,
// so an event that arrived before the call is never missed. A
// negative timeout waits indefinitely; a zero timeout checks the
// buffer and returns.
func (b *Bus) Wait(ctx context.Context, match func(radio.Event) bool, timeout time.Duration) (radio.Event, WaitStatus) {
	b.mu.Lock()
	if ev, ok := b.takeBuffered(match); ok {
		b.mu.Unlock()
		return ev, Delivered
	}
	if timeout == 0 {
		b.mu.Unlock()
		return nil, TimedOut
	}
	w := b.register(match)
	b.mu.Unlock()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case ev := <-w.ch:
		return ev, Delivered
	case <-timer:
		b.unregister(w)
		// The event may have been handed off between the timer
		// firing and unregister pushing it back; prefer delivering.
		select {
		case ev := <-w.ch:
			return ev, Delivered
		default:
		}
		b.mu.Lock()
		ev, ok := b.takeBuffered(match)
		b.mu.Unlock()
		if ok {
			return ev, Delivered
		}
		return nil, TimedOut
	case <-ctx.Done():
		b.unregister(w)
		return nil, Cancelled
	}
}

// WaitAck waits for the ack with the given code. code 0 matches any
// ack.
func (b *Bus) WaitAck(ctx context.Context, code uint32, timeout time.Duration) (radio.Ack, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		a, ok := ev.(radio.Ack)
		return ok && (code == 0 || a.Code == code)
	}, timeout)
	if st != Delivered {
		return radio.Ack{}, st
	}
	return ev.(radio.Ack), Delivered
}

// WaitMsg waits for the next contact or channel message.
func (b *Bus) WaitMsg(ctx context.Context, timeout time.Duration) (radio.Event, WaitStatus) {
	return b.Wait(ctx, isMessage, timeout)
}

// Recv returns the oldest buffered message without waiting; TimedOut
// means the buffer held none.
func (b *Bus) Recv(ctx context.Context) (radio.Event, WaitStatus) {
	return b.Wait(ctx, isMessage, 0)
}

func isMessage(ev radio.Event) bool {
	switch ev.(type) {
	case radio.ContactMessage, radio.ChannelMessage:
		return true
	}
	return false
}

// WaitLogin waits for a login result event.
func (b *Bus) WaitLogin(ctx context.Context, timeout time.Duration) (radio.LoginResult, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		_, ok := ev.(radio.LoginResult)
		return ok
	}, timeout)
	if st != Delivered {
		return radio.LoginResult{}, st
	}
	return ev.(radio.LoginResult), Delivered
}

// WaitPath waits for a path discovery response from the given key.
func (b *Bus) WaitPath(ctx context.Context, publicKey string, timeout time.Duration) (radio.PathResponse, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		p, ok := ev.(radio.PathResponse)
		return ok && (publicKey == "" || p.PublicKey == publicKey)
	}, timeout)
	if st != Delivered {
		return radio.PathResponse{}, st
	}
	return ev.(radio.PathResponse), Delivered
}

// WaitStatusResponse waits for a repeater status reply.
func (b *Bus) WaitStatusResponse(ctx context.Context, timeout time.Duration) (radio.StatusResponse, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		_, ok := ev.(radio.StatusResponse)
		return ok
	}, timeout)
	if st != Delivered {
		return radio.StatusResponse{}, st
	}
	return ev.(radio.StatusResponse), Delivered
}

// WaitTelemetry waits for a remote telemetry reply.
func (b *Bus) WaitTelemetry(ctx context.Context, timeout time.Duration) (radio.TelemetryResponse, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		_, ok := ev.(radio.TelemetryResponse)
		return ok
	}, timeout)
	if st != Delivered {
		return radio.TelemetryResponse{}, st
	}
	return ev.(radio.TelemetryResponse), Delivered
}

// WaitBinary waits for a raw binary reply.
func (b *Bus) WaitBinary(ctx context.Context, timeout time.Duration) (radio.BinaryResponse, WaitStatus) {
	ev, st := b.Wait(ctx, func(ev radio.Event) bool {
		_, ok := ev.(radio.BinaryResponse)
		return ok
	}, timeout)
	if st != Delivered {
		return radio.BinaryResponse{}, st
	}
	return ev.(radio.BinaryResponse), Delivered
}
