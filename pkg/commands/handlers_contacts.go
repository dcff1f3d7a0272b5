package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/events"
	"github.com/chrstnwhlrt/meshcli/pkg/filter"
)

// contacts lists the contact table, optionally narrowed by a filter
// expression.
func handleContacts(ctx context.Context, rt *Runtime, inv Invocation) error {
	contacts, err := rt.Contacts(ctx)
	if err != nil {
		return err
	}
	if len(inv.Args) > 0 {
		f, err := filter.Parse(inv.Args[0])
		if err != nil {
			return err
		}
		contacts = f.Select(contacts, time.Now())
	}
	rt.Out.Contacts(contacts)
	return nil
}

func handleReloadContacts(ctx context.Context, rt *Runtime, _ Invocation) error {
	if err := rt.Device.ReloadContacts(ctx); err != nil {
		return err
	}
	rt.InvalidateContacts()
	contacts, err := rt.Contacts(ctx)
	if err != nil {
		return err
	}
	rt.Out.Info("%d contacts", len(contacts))
	return nil
}

func handleContactInfo(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	path := "flood"
	if c.OutPathLen >= 0 {
		path = c.OutPath
		if path == "" {
			path = "direct"
		}
	}
	rt.Out.Result(c.Name, map[string]any{
		"public_key":  c.PublicKey,
		"type":        c.Type.String(),
		"path":        path,
		"last_advert": c.LastAdvert.Format(time.RFC3339),
	})
	return nil
}

func handleRemoveContact(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	if err := rt.Device.RemoveContact(ctx, c); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("%s removed", c.Name)
	return nil
}

func handleShareContact(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	if err := rt.Device.ShareContact(ctx, c); err != nil {
		return err
	}
	rt.Out.Info("%s shared on mesh", c.Name)
	return nil
}

func handleExportContact(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	uri, err := rt.Device.ExportContact(ctx, c)
	if err != nil {
		return err
	}
	rt.Out.Result(c.Name, uri)
	return nil
}

func handleImportContact(ctx context.Context, rt *Runtime, inv Invocation) error {
	if err := rt.Device.ImportContact(ctx, inv.Args[0]); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("contact imported")
	return nil
}

func handlePath(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	if c.OutPathLen < 0 {
		rt.Out.Result(c.Name, "flood")
		return nil
	}
	rt.Out.Result(c.Name, map[string]any{
		"hops": c.OutPathLen,
		"path": c.OutPath,
	})
	return nil
}

// disc_path asks the mesh for a route and waits for the reply.
func handleDiscoverPath(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	res, err := rt.Device.DiscoverPath(ctx, c)
	if err != nil {
		return err
	}
	resp, st := rt.Bus.WaitPath(ctx, c.PublicKey, waitBound(res.Timeout))
	if st != events.Delivered {
		rt.Out.TimedOut("disc_path")
		return nil
	}
	rt.InvalidateContacts()
	rt.Out.Result(c.Name, map[string]any{
		"hops": resp.Hops,
		"path": resp.Path,
	})
	return nil
}

func handleResetPath(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	if err := rt.Device.ResetPath(ctx, c); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("%s reset to flood routing", c.Name)
	return nil
}

func handleChangePath(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	if err := rt.Device.ChangePath(ctx, c, inv.Args[1]); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("%s path changed", c.Name)
	return nil
}

func handleChangeFlags(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	flags, err := strconv.ParseUint(inv.Args[1], 0, 8)
	if err != nil {
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[1], Reason: "expected a flags byte"}
	}
	c.Flags = uint8(flags)
	if err := rt.Device.UpdateContact(ctx, c); err != nil {
		return err
	}
	rt.InvalidateContacts()
	rt.Out.Info("%s flags changed", c.Name)
	return nil
}

func firstArg(inv Invocation) string {
	if len(inv.Args) > 0 {
		return inv.Args[0]
	}
	return ""
}
