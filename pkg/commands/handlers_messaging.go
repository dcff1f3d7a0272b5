package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/events"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
	"github.com/chrstnwhlrt/meshcli/pkg/session"
	"github.com/chrstnwhlrt/meshcli/pkg/store"
)

// waitBound caps a device-suggested timeout, falling back to a sane
// default when the device offers none.
func waitBound(suggested time.Duration) time.Duration {
	if suggested > 0 {
		return suggested
	}
	return 30 * time.Second
}

// msg sends a private message. The destination is the first argument
// when it names a contact, otherwise the session's current contact
// with the full argument list as text.
func handleMsg(ctx context.Context, rt *Runtime, inv Invocation) error {
	dest, text, err := splitDestText(ctx, rt, inv)
	if err != nil {
		return err
	}
	return rt.SendText(ctx, dest, text)
}

// SendText sends text to a contact and records the pending ack for a
// later wait_ack.
func (rt *Runtime) SendText(ctx context.Context, dest radio.Contact, text string) error {
	res, err := rt.Device.SendMessage(ctx, dest, text)
	if err != nil {
		return err
	}
	rt.SetPendingAck(res)
	rt.RecordMessage(store.Entry{
		Direction: store.DirOut,
		Peer:      dest.Name,
		Channel:   -1,
		Text:      text,
		At:        time.Now(),
	})
	rt.Out.Info("sent to %s (ack %08x)", dest.Name, res.ExpectedAck)
	return nil
}

func splitDestText(ctx context.Context, rt *Runtime, inv Invocation) (radio.Contact, string, error) {
	args := inv.Args
	if len(args) >= 2 {
		dest, err := rt.ResolveContact(ctx, args[0])
		if err == nil {
			return dest, strings.Join(args[1:], " "), nil
		}
		if rt.Nav != nil {
			if cur := rt.Nav.Current(); cur.Place == session.AtContact {
				return cur.Contact, strings.Join(args, " "), nil
			}
		}
		return radio.Contact{}, "", err
	}
	// One argument: the text; destination comes from the session.
	if rt.Nav != nil {
		if cur := rt.Nav.Current(); cur.Place == session.AtContact {
			return cur.Contact, args[0], nil
		}
	}
	return radio.Contact{}, "", &NoDestinationError{Command: inv.Def.Name}
}

// chan sends to a numbered channel.
func handleChan(ctx context.Context, rt *Runtime, inv Invocation) error {
	n, err := strconv.Atoi(inv.Args[0])
	if err != nil || n < 0 {
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a channel number"}
	}
	return rt.SendChannelText(ctx, n, strings.Join(inv.Args[1:], " "))
}

// public sends to channel 0.
func handlePublic(ctx context.Context, rt *Runtime, inv Invocation) error {
	return rt.SendChannelText(ctx, 0, strings.Join(inv.Args, " "))
}

// SendChannelText sends text on a channel slot.
func (rt *Runtime) SendChannelText(ctx context.Context, channel int, text string) error {
	if err := rt.Device.SendChannelMessage(ctx, channel, text); err != nil {
		return err
	}
	rt.RecordMessage(store.Entry{
		Direction: store.DirOut,
		Peer:      "#" + strconv.Itoa(channel),
		Channel:   channel,
		Text:      text,
		At:        time.Now(),
	})
	if rt.Cfg != nil && rt.Cfg.Messaging.ChannelEcho {
		rt.Out.Info("#%d <- %s", channel, text)
	} else {
		rt.Out.Info("sent to #%d", channel)
	}
	return nil
}

// wait_ack blocks for the ack of the most recent send, or for any ack
// when no send is outstanding. An optional argument overrides the
// timeout in seconds.
func handleWaitAck(ctx context.Context, rt *Runtime, inv Invocation) error {
	code, suggested, hasPending := rt.TakePendingAck()
	timeout := waitBound(suggested)
	if !hasPending {
		timeout = rt.Cfg.AckTimeout("")
	}
	if len(inv.Args) > 0 {
		secs, err := strconv.Atoi(inv.Args[0])
		if err != nil || secs < 0 {
			return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a timeout in seconds"}
		}
		timeout = time.Duration(secs) * time.Second
	}

	ack, st := rt.Bus.WaitAck(ctx, code, timeout)
	switch st {
	case events.Delivered:
		rt.Out.Result("ack", map[string]any{"code": ack.Code})
	case events.TimedOut:
		rt.Out.TimedOut("wait_ack")
	case events.Cancelled:
		return ctx.Err()
	}
	return nil
}

// wait_msg blocks for the next message, indefinitely unless a timeout
// argument is given.
func handleWaitMsg(ctx context.Context, rt *Runtime, inv Invocation) error {
	timeout := time.Duration(-1)
	if len(inv.Args) > 0 {
		secs, err := strconv.Atoi(inv.Args[0])
		if err != nil || secs < 0 {
			return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a timeout in seconds"}
		}
		timeout = time.Duration(secs) * time.Second
	}
	return rt.reportMsgWait(ctx, "wait_msg", timeout)
}

// trywait_msg is wait_msg with a mandatory timeout.
func handleTryWaitMsg(ctx context.Context, rt *Runtime, inv Invocation) error {
	secs, err := strconv.Atoi(inv.Args[0])
	if err != nil || secs < 0 {
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a timeout in seconds"}
	}
	return rt.reportMsgWait(ctx, "trywait_msg", time.Duration(secs)*time.Second)
}

// wmt8 is trywait_msg with an 8 second bound.
func handleWaitMsg8(ctx context.Context, rt *Runtime, _ Invocation) error {
	return rt.reportMsgWait(ctx, "trywait_msg", 8*time.Second)
}

// recv polls the buffer without blocking.
func handleRecv(ctx context.Context, rt *Runtime, _ Invocation) error {
	ev, st := rt.Bus.Recv(ctx)
	if st != events.Delivered {
		rt.Out.Info("no message")
		return nil
	}
	rt.deliverMessage(ev)
	return nil
}

func (rt *Runtime) reportMsgWait(ctx context.Context, what string, timeout time.Duration) error {
	ev, st := rt.Bus.WaitMsg(ctx, timeout)
	switch st {
	case events.Delivered:
		rt.deliverMessage(ev)
	case events.TimedOut:
		rt.Out.TimedOut(what)
	case events.Cancelled:
		return ctx.Err()
	}
	return nil
}

// deliverMessage prints and archives one consumed message event.
func (rt *Runtime) deliverMessage(ev radio.Event) {
	rt.Out.Message(ev)
	switch m := ev.(type) {
	case radio.ContactMessage:
		if rt.Nav != nil {
			rt.Nav.NoteSender(m.SenderName)
		}
		rt.RecordMessage(store.Entry{
			Direction: store.DirIn,
			Peer:      m.SenderName,
			Channel:   -1,
			Text:      m.Text,
			At:        m.ReceivedAt(),
		})
	case radio.ChannelMessage:
		rt.RecordMessage(store.Entry{
			Direction: store.DirIn,
			Peer:      "#" + strconv.Itoa(m.Channel),
			Channel:   m.Channel,
			Text:      m.Text,
			At:        m.ReceivedAt(),
		})
	}
}

// sync_msgs flushes the device's queued messages, then drains the
// buffer.
func handleSyncMsgs(ctx context.Context, rt *Runtime, _ Invocation) error {
	n, err := rt.Device.SyncMessages(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ev, st := rt.Bus.WaitMsg(ctx, 5*time.Second)
		if st != events.Delivered {
			break
		}
		rt.deliverMessage(ev)
	}
	return nil
}

// msgs_subscribe streams messages until cancelled.
func handleMsgsSubscribe(ctx context.Context, rt *Runtime, _ Invocation) error {
	for {
		ev, st := rt.Bus.WaitMsg(ctx, -1)
		if st != events.Delivered {
			return nil
		}
		rt.deliverMessage(ev)
	}
}

// history lists recent archived messages: history [n] [peer].
func handleHistory(_ context.Context, rt *Runtime, inv Invocation) error {
	if rt.Archive == nil {
		return &InvalidArgumentsError{Command: inv.Def.Name, Reason: "message archive is disabled"}
	}
	limit := 20
	peer := ""
	for _, arg := range inv.Args {
		if n, err := strconv.Atoi(arg); err == nil {
			limit = n
		} else {
			peer = arg
		}
	}

	var entries []store.Entry
	var err error
	if peer != "" {
		entries, err = rt.Archive.RecentWith(peer, limit)
	} else {
		entries, err = rt.Archive.Recent(limit)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		dir := "<-"
		if e.Direction == store.DirOut {
			dir = "->"
		}
		rt.Out.Info("%s %s %s: %s", e.At.Local().Format("01-02 15:04"), dir, e.Peer, e.Text)
	}
	return nil
}
