package commands

import (
	"context"
	"strconv"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func handleGetChannels(ctx context.Context, rt *Runtime, _ Invocation) error {
	channels, err := rt.Device.Channels(ctx)
	if err != nil {
		return err
	}
	rt.Out.Channels(channels)
	return nil
}

func handleGetChannel(ctx context.Context, rt *Runtime, inv Invocation) error {
	n, err := channelIndex(inv, inv.Args[0])
	if err != nil {
		return err
	}
	channels, err := rt.Device.Channels(ctx)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		if ch.Index == n {
			rt.Out.Result("channel", map[string]any{
				"index": ch.Index,
				"name":  ch.Name,
				"key":   ch.Key,
			})
			return nil
		}
	}
	return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "no such channel"}
}

// set_channel <n> <name> [key]
func handleSetChannel(ctx context.Context, rt *Runtime, inv Invocation) error {
	n, err := channelIndex(inv, inv.Args[0])
	if err != nil {
		return err
	}
	ch := radio.Channel{Index: n, Name: inv.Args[1]}
	if len(inv.Args) > 2 {
		ch.Key = inv.Args[2]
	}
	if err := rt.Device.SetChannel(ctx, ch); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("channel %d set to %s", n, ch.Name)
	return nil
}

// add_channel <name> [key] picks the first free slot.
func handleAddChannel(ctx context.Context, rt *Runtime, inv Invocation) error {
	channels, err := rt.Device.Channels(ctx)
	if err != nil {
		return err
	}
	used := make(map[int]bool, len(channels))
	for _, ch := range channels {
		if ch.Name != "" {
			used[ch.Index] = true
		}
	}
	slot := 1 // slot 0 is the public channel
	for used[slot] {
		slot++
	}

	ch := radio.Channel{Index: slot, Name: inv.Args[0]}
	if len(inv.Args) > 1 {
		ch.Key = inv.Args[1]
	}
	if err := rt.Device.SetChannel(ctx, ch); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("channel %d added as %s", slot, ch.Name)
	return nil
}

func handleRemoveChannel(ctx context.Context, rt *Runtime, inv Invocation) error {
	n, err := channelIndex(inv, inv.Args[0])
	if err != nil {
		return err
	}
	if err := rt.Device.RemoveChannel(ctx, n); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("channel %d removed", n)
	return nil
}

func channelIndex(inv Invocation, tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, &InvalidArgumentsError{Command: inv.Def.Name, Token: tok, Reason: "expected a channel number"}
	}
	return n, nil
}
