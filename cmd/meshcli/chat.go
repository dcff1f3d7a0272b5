package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"

	"github.com/chrstnwhlrt/meshcli/pkg/commands"
	"github.com/chrstnwhlrt/meshcli/pkg/config"
	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
	"github.com/chrstnwhlrt/meshcli/pkg/session"
)

// runChat is the interactive loop. Free text goes to the current
// destination, `to` moves around, `/` escapes to a command, and events
// print as they arrive.
func runChat(ctx context.Context, disp *commands.Dispatcher, cfg *config.Config, info radio.SelfInfo, target string) error {
	rt := disp.Runtime()
	nav := session.New(info.Name)
	rt.Nav = nav

	if _, err := rt.RefreshContacts(ctx); err != nil {
		return err
	}
	if target != "" {
		if err := navigate(ctx, rt, nav, target); err != nil {
			return err
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          nav.Prompt(),
		HistoryFile:     cfg.Session.HistoryFile,
		AutoComplete:    chatCompleter(ctx, disp),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sub, unsubscribe := rt.Bus.Subscribe()
	defer unsubscribe()
	go printEvents(sub, rt, nav, rl)

	rt.Out.Info("connected to %s, type `help` for commands, `quit` to leave", info.Name)

	for {
		rl.SetPrompt(nav.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "quit", "q", "exit":
			return nil
		case "help", "?":
			printHelp(rt, disp)
			continue
		}

		if err := handleLine(ctx, disp, rt, nav, line); err != nil {
			rt.Out.Error(err)
		}
	}
}

// handleLine routes one input line. Ctrl-C while a command runs
// cancels that command, not the session.
func handleLine(ctx context.Context, disp *commands.Dispatcher, rt *commands.Runtime, nav *session.Navigator, line string) error {
	cmdCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if rest, ok := strings.CutPrefix(line, "to "); ok {
		return navigate(cmdCtx, rt, nav, strings.TrimSpace(rest))
	}
	if line == "to" {
		rt.Out.Info("at %s", promptLabel(nav))
		return nil
	}

	if rest, ok := strings.CutPrefix(line, "\""); ok {
		// Forced message, even to a repeater or room.
		return sendCurrent(cmdCtx, rt, nav, rest, true)
	}

	if rest, ok := strings.CutPrefix(line, "/"); ok {
		return handleSlash(cmdCtx, disp, rt, rest)
	}

	return routeFreeText(cmdCtx, disp, rt, nav, line)
}

// handleSlash handles the `/cmd args`, `/dest/cmd args` and
// `/dest text` escapes.
func handleSlash(ctx context.Context, disp *commands.Dispatcher, rt *commands.Runtime, rest string) error {
	head, tail, _ := strings.Cut(rest, " ")
	tail = strings.TrimSpace(tail)

	if dest, cmd, ok := strings.Cut(head, "/"); ok && dest != "" {
		// Destination-taking commands accept an explicit name as
		// their first argument, so /Alice/req_status becomes
		// `req_status Alice`.
		line := cmd + " " + dest
		if tail != "" {
			line = cmd + " " + dest + " " + tail
		}
		return disp.RunLine(ctx, line)
	}

	if _, ok := disp.Registry().Resolve(head); ok {
		return disp.RunLine(ctx, rest)
	}

	// Not a command: treat the first token as a destination and the
	// rest as message text.
	if tail == "" {
		return &commands.InvalidArgumentsError{Command: "/", Token: head, Reason: "expected a command or a destination with text"}
	}
	dest, err := rt.ResolveContact(ctx, head)
	if err != nil {
		return err
	}
	return rt.SendText(ctx, dest, tail)
}

// routeFreeText sends plain input according to the current place:
// message to chat-capable contacts, remote command to repeaters and
// rooms, channel message on a channel, command line at root.
func routeFreeText(ctx context.Context, disp *commands.Dispatcher, rt *commands.Runtime, nav *session.Navigator, line string) error {
	dest := nav.Current()
	switch dest.Place {
	case session.AtContact:
		if dest.Contact.Type.Chattable() {
			return sendCurrent(ctx, rt, nav, line, true)
		}
		return sendCurrent(ctx, rt, nav, line, false)
	case session.AtChannel:
		return rt.SendChannelText(ctx, dest.Channel.Index, line)
	default:
		return disp.RunLine(ctx, line)
	}
}

// sendCurrent delivers text to the current contact, as a private
// message or as a remote command.
func sendCurrent(ctx context.Context, rt *commands.Runtime, nav *session.Navigator, text string, asMessage bool) error {
	dest := nav.Current()
	switch dest.Place {
	case session.AtContact:
		if asMessage {
			return rt.SendText(ctx, dest.Contact, text)
		}
		return rt.SendRemoteCommand(ctx, dest.Contact, text)
	case session.AtChannel:
		return rt.SendChannelText(ctx, dest.Channel.Index, text)
	default:
		return &commands.NoDestinationError{Command: "msg"}
	}
}

func navigate(ctx context.Context, rt *commands.Runtime, nav *session.Navigator, target string) error {
	contacts, err := rt.Contacts(ctx)
	if err != nil {
		return err
	}
	channels, err := rt.Channels(ctx)
	if err != nil {
		return err
	}
	dest, err := nav.To(target, contacts, channels)
	if err != nil {
		return err
	}
	if label := dest.Label(); label != "" {
		rt.Out.Info("now at %s", label)
	}
	return nil
}

func promptLabel(nav *session.Navigator) string {
	if label := nav.Current().Label(); label != "" {
		return label
	}
	return "root"
}

// printEvents prints incoming events above the prompt and tracks the
// last private-message sender for `to !`.
func printEvents(sub <-chan radio.Event, rt *commands.Runtime, nav *session.Navigator, rl *readline.Instance) {
	for ev := range sub {
		if msg, ok := ev.(radio.ContactMessage); ok {
			nav.NoteSender(msg.SenderName)
		}
		if _, ok := ev.(radio.NewContactAdvert); ok && rt.Cfg.Session.AutoReloadContacts {
			rt.InvalidateContacts()
		}
		rt.Out.Event(ev)
		rl.Refresh()
	}
}

func printHelp(rt *commands.Runtime, disp *commands.Dispatcher) {
	if rt.Out.JSON() {
		rt.Out.Result("help", disp.Registry().Names())
		return
	}
	for _, def := range disp.Registry().All() {
		usage := def.Usage
		if usage == "" {
			usage = def.Name
		}
		line := fmt.Sprintf("  %-34s %s", usage, def.Description)
		if len(def.Aliases) > 0 {
			line += " (" + strings.Join(def.Aliases, ", ") + ")"
		}
		rt.Out.Info("%s", line)
	}
	rt.Out.Info("  %-34s %s", "to <name>|..|!|/", "Change the current destination")
	rt.Out.Info("  %-34s %s", "quit", "Leave the session")
}

// chatCompleter completes command names and known contact names.
func chatCompleter(ctx context.Context, disp *commands.Dispatcher) readline.AutoCompleter {
	rt := disp.Runtime()
	return readline.NewPrefixCompleter(
		readline.PcItemDynamic(func(string) []string {
			names := []string{"to", "quit", "help"}
			names = append(names, disp.Registry().Names()...)
			contacts, err := rt.Contacts(ctx)
			if err != nil {
				logger.DebugCF("chat", "completion contacts unavailable", map[string]any{"error": err.Error()})
				return names
			}
			for _, c := range contacts {
				names = append(names, c.Name)
			}
			return names
		}),
	)
}
