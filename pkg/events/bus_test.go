package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func ack(code uint32) radio.Ack {
	return radio.Ack{EventMeta: radio.EventMeta{At: time.Now()}, Code: code}
}

func msg(sender, text string) radio.ContactMessage {
	return radio.ContactMessage{
		EventMeta:  radio.EventMeta{At: time.Now()},
		SenderName: sender,
		Text:       text,
	}
}

// An event published before the wait starts must still be delivered.
func TestWait_BufferedEventDelivered(t *testing.T) {
	b := NewBus(0)
	b.Publish(ack(42))

	got, st := b.WaitAck(context.Background(), 42, time.Second)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(42), got.Code)
}

func TestWait_EventWhileBlocked(t *testing.T) {
	b := NewBus(0)

	done := make(chan struct{})
	var got radio.Ack
	var st WaitStatus
	go func() {
		got, st = b.WaitAck(context.Background(), 0, 5*time.Second)
		close(done)
	}()

	// Give the waiter a moment to register, then publish.
	time.Sleep(20 * time.Millisecond)
	b.Publish(ack(7))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not complete")
	}
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(7), got.Code)
}

func TestWait_ZeroTimeoutPollsBuffer(t *testing.T) {
	b := NewBus(0)

	_, st := b.WaitMsg(context.Background(), 0)
	assert.Equal(t, TimedOut, st)

	b.Publish(msg("Alice", "hi"))
	ev, st := b.Recv(context.Background())
	require.Equal(t, Delivered, st)
	assert.Equal(t, "Alice", ev.(radio.ContactMessage).SenderName)
}

func TestWait_Timeout(t *testing.T) {
	b := NewBus(0)

	start := time.Now()
	_, st := b.WaitAck(context.Background(), 0, 50*time.Millisecond)
	assert.Equal(t, TimedOut, st)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_Cancelled(t *testing.T) {
	b := NewBus(0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, st := b.WaitAck(ctx, 0, 5*time.Second)
	assert.Equal(t, Cancelled, st)
}

func TestWaitAck_SpecificCode(t *testing.T) {
	b := NewBus(0)
	b.Publish(ack(1))
	b.Publish(ack(2))
	b.Publish(ack(3))

	got, st := b.WaitAck(context.Background(), 2, time.Second)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(2), got.Code)

	// The other acks stay buffered, oldest first.
	got, st = b.WaitAck(context.Background(), 0, 0)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(1), got.Code)
	got, st = b.WaitAck(context.Background(), 0, 0)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(3), got.Code)
}

func TestWait_FIFOWithinCategory(t *testing.T) {
	b := NewBus(0)
	b.Publish(msg("Alice", "first"))
	b.Publish(msg("Bob", "second"))

	ev, st := b.Recv(context.Background())
	require.Equal(t, Delivered, st)
	assert.Equal(t, "first", ev.(radio.ContactMessage).Text)

	ev, st = b.Recv(context.Background())
	require.Equal(t, Delivered, st)
	assert.Equal(t, "second", ev.(radio.ContactMessage).Text)
}

// Each event goes to at most one consumer.
func TestWait_SingleConsumer(t *testing.T) {
	b := NewBus(0)
	b.Publish(ack(9))

	var delivered int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, st := b.WaitAck(context.Background(), 9, 100*time.Millisecond); st == Delivered {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, delivered)
}

func TestBus_WindowPruning(t *testing.T) {
	b := NewBus(50 * time.Millisecond)

	stale := radio.Ack{EventMeta: radio.EventMeta{At: time.Now().Add(-time.Minute)}, Code: 1}
	b.Publish(stale)
	b.Publish(ack(2)) // publishing prunes anything outside the window

	_, st := b.WaitAck(context.Background(), 1, 0)
	assert.Equal(t, TimedOut, st)
	got, st := b.WaitAck(context.Background(), 2, 0)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(2), got.Code)
}

func TestSubscribe_SeesEventsConsumedByWaiters(t *testing.T) {
	b := NewBus(0)
	sub, cancel := b.Subscribe()
	defer cancel()

	b.Publish(ack(5))
	got, st := b.WaitAck(context.Background(), 5, time.Second)
	require.Equal(t, Delivered, st)
	assert.Equal(t, uint32(5), got.Code)

	select {
	case ev := <-sub:
		assert.Equal(t, uint32(5), ev.(radio.Ack).Code)
	case <-time.After(time.Second):
		t.Fatal("subscriber saw nothing")
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	b := NewBus(0)
	sub, cancel := b.Subscribe()
	cancel()

	_, open := <-sub
	assert.False(t, open)

	// Publishing after cancel must not panic.
	b.Publish(ack(1))
}
