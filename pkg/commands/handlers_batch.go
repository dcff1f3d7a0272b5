package commands

import (
	"context"
	"strings"

	"github.com/chrstnwhlrt/meshcli/pkg/batch"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// apply_to <filter> <command...> dispatches the command template to
// every contact matching the filter. Recognized templates:
//
//	remove_contact      remove each match
//	send <text>         message each match
//	<anything else>     sent as a repeater command; non-repeaters
//	                    count as per-contact failures
func handleApplyTo(ctx context.Context, rt *Runtime, inv Invocation) error {
	contacts, err := rt.Contacts(ctx)
	if err != nil {
		return err
	}

	template := inv.Args[1:]
	outcomes, err := batch.Run(ctx, inv.Args[0], template, contacts, rt.applyTemplate)
	for _, o := range outcomes {
		if o.Err != nil {
			rt.Out.Warning("%s: %v", o.Contact.Name, o.Err)
		} else {
			rt.Out.Info("%s: ok", o.Contact.Name)
		}
	}
	if err != nil {
		return err
	}
	rt.Out.Info("%d contacts matched filter", len(outcomes))
	return nil
}

// script runs a script file through the dispatcher.
func handleScript(ctx context.Context, rt *Runtime, inv Invocation) error {
	return rt.disp.RunScript(ctx, inv.Args[0])
}

// applyTemplate executes one template instance with the contact
// substituted as destination.
func (rt *Runtime) applyTemplate(ctx context.Context, c radio.Contact, template []string) error {
	head := template[0]
	switch {
	case head == "remove_contact":
		if err := rt.Device.RemoveContact(ctx, c); err != nil {
			return err
		}
		rt.InvalidateContacts()
		return nil
	case head == "send":
		return rt.SendText(ctx, c, strings.Join(template[1:], " "))
	default:
		if c.Type != radio.TypeRepeater && c.Type != radio.TypeRoom {
			return &InvalidArgumentsError{
				Command: "apply_to",
				Token:   head,
				Reason:  "can only send commands to repeaters and rooms",
			}
		}
		return rt.SendRemoteCommand(ctx, c, strings.Join(template, " "))
	}
}
