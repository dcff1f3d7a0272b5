package events

import (
	"sync"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// DefaultWindow is how long unconsumed events stay buffered before
// pruning. Late waiters still see anything younger than this.
const DefaultWindow = 5 * time.Minute

const subscriberBuffer = 64

// Bus buffers unsolicited device events so that a waiter registered
// after the event arrived can still consume it. Acks, messages, and
// command replies live in separate FIFO buffers; each event is
// delivered to at most one waiter, then removed.
//
// Subscribers are independent of waiters: every published event is
// fanned out to all subscribers (best effort), whether or not a
// waiter consumed it.
type Bus struct {
	mu     sync.Mutex
	window time.Duration

	acks    []radio.Ack
	msgs    []radio.Event
	replies []radio.Event

	waiters []*waiter

	subMu sync.RWMutex
	subs  map[int]chan radio.Event
	subID int
}

type waiter struct {
	match func(radio.Event) bool
	ch    chan radio.Event
	done  bool
}

// NewBus returns a Bus with the given retention window; window <= 0
// uses DefaultWindow.
func NewBus(window time.Duration) *Bus {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Bus{
		window: window,
		subs:   make(map[int]chan radio.Event),
	}
}

// Publish is called by the transport reader for every unsolicited
// event. It never blocks.
func (b *Bus) Publish(ev radio.Event) {
	b.mu.Lock()
	b.prune(time.Now())

	delivered := false
	for _, w := range b.waiters {
		if !w.done && w.match(ev) {
			w.done = true
			w.ch <- ev
			delivered = true
			break
		}
	}
	if !delivered {
		switch e := ev.(type) {
		case radio.Ack:
			b.acks = append(b.acks, e)
		case radio.ContactMessage, radio.ChannelMessage:
			b.msgs = append(b.msgs, ev)
		case radio.LoginResult, radio.PathResponse, radio.StatusResponse,
			radio.TelemetryResponse, radio.BinaryResponse:
			b.replies = append(b.replies, ev)
		}
	}
	b.compactWaiters()
	b.mu.Unlock()

	b.fanOut(ev)
}

// Subscribe returns a channel carrying every future published event.
// The channel is buffered; events are dropped for a subscriber that
// falls behind. Call the returned cancel func when done.
func (b *Bus) Subscribe() (<-chan radio.Event, func()) {
	b.subMu.Lock()
	b.subID++
	id := b.subID
	ch := make(chan radio.Event, subscriberBuffer)
	b.subs[id] = ch
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
		b.subMu.Unlock()
	}
	return ch, cancel
}

func (b *Bus) fanOut(ev radio.Event) {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logger.DebugCF("events", "subscriber behind, dropping event", map[string]any{
				"kind": ev.Kind().String(),
			})
		}
	}
}

// prune drops buffered events older than the retention window.
// Caller holds b.mu.
func (b *Bus) prune(now time.Time) {
	cutoff := now.Add(-b.window)
	b.acks = pruneAcks(b.acks, cutoff)
	b.msgs = pruneEvents(b.msgs, cutoff)
	b.replies = pruneEvents(b.replies, cutoff)
}

func pruneAcks(in []radio.Ack, cutoff time.Time) []radio.Ack {
	i := 0
	for i < len(in) && in[i].ReceivedAt().Before(cutoff) {
		i++
	}
	return in[i:]
}

func pruneEvents(in []radio.Event, cutoff time.Time) []radio.Event {
	i := 0
	for i < len(in) && in[i].ReceivedAt().Before(cutoff) {
		i++
	}
	return in[i:]
}

// compactWaiters drops completed registrations. Caller holds b.mu.
func (b *Bus) compactWaiters() {
	live := b.waiters[:0]
	for _, w := range b.waiters {
		if !w.done {
			live = append(live, w)
		}
	}
	b.waiters = live
}

// takeBuffered removes and returns the oldest buffered event matching
// match, searching the buffer that holds events of that category.
// Caller holds b.mu.
func (b *Bus) takeBuffered(match func(radio.Event) bool) (radio.Event, bool) {
	for i, a := range b.acks {
		if match(a) {
			b.acks = append(b.acks[:i], b.acks[i+1:]...)
			return a, true
		}
	}
	for i, m := range b.msgs {
		if match(m) {
			b.msgs = append(b.msgs[:i], b.msgs[i+1:]...)
			return m, true
		}
	}
	for i, r := range b.replies {
		if match(r) {
			b.replies = append(b.replies[:i], b.replies[i+1:]...)
			return r, true
		}
	}
	return nil, false
}

// register adds a waiter. Caller holds b.mu.
func (b *Bus) register(match func(radio.Event) bool) *waiter {
	w := &waiter{match: match, ch: make(chan radio.Event, 1)}
	b.waiters = append(b.waiters, w)
	return w
}

// unregister marks a waiter dead so Publish skips it. An event that
// raced into the channel is pushed back into the buffers.
func (b *Bus) unregister(w *waiter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w.done {
		select {
		case ev := <-w.ch:
			switch e := ev.(type) {
			case radio.Ack:
				b.acks = append(b.acks, e)
			case radio.ContactMessage, radio.ChannelMessage:
				b.msgs = append(b.msgs, ev)
			default:
				b.replies = append(b.replies, ev)
			}
		default:
		}
	}
	w.done = true
	b.compactWaiters()
}
