package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/chrstnwhlrt/meshcli/pkg/events"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

// login authenticates against a repeater or room server and waits for
// the result.
func handleLogin(ctx context.Context, rt *Runtime, inv Invocation) error {
	var c radio.Contact
	var password string
	var err error
	if len(inv.Args) >= 2 {
		c, err = rt.ResolveContact(ctx, inv.Args[0])
		password = inv.Args[1]
	} else {
		c, err = rt.Destination(ctx, inv.Def.Name, "")
		password = inv.Args[0]
	}
	if err != nil {
		return err
	}

	res, err := rt.Device.Login(ctx, c, password)
	if err != nil {
		return err
	}
	result, st := rt.Bus.WaitLogin(ctx, waitBound(res.Timeout))
	switch st {
	case events.Delivered:
		if result.Success {
			rt.Out.Info("logged in to %s", c.Name)
		} else {
			rt.Out.Error(&radio.DeviceError{Op: "login", Detail: "rejected by " + c.Name})
		}
	case events.TimedOut:
		rt.Out.TimedOut("login")
	case events.Cancelled:
		return ctx.Err()
	}
	return nil
}

func handleLogout(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	if err := rt.Device.Logout(ctx, c); err != nil {
		return err
	}
	rt.Out.Info("logged out of %s", c.Name)
	return nil
}

// cmd sends a raw repeater command line. The destination is the first
// argument when it names a contact, otherwise the session's current
// destination.
func handleCmd(ctx context.Context, rt *Runtime, inv Invocation) error {
	dest, text, err := splitDestText(ctx, rt, inv)
	if err != nil {
		return err
	}
	return rt.SendRemoteCommand(ctx, dest, text)
}

// SendRemoteCommand sends a command string to a repeater or room and
// records the pending ack.
func (rt *Runtime) SendRemoteCommand(ctx context.Context, dest radio.Contact, text string) error {
	res, err := rt.Device.SendCommand(ctx, dest, text)
	if err != nil {
		return err
	}
	rt.SetPendingAck(res)
	rt.Out.Info("command sent to %s", dest.Name)
	return nil
}

func handleReqStatus(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	res, err := rt.Device.RequestStatus(ctx, c)
	if err != nil {
		return err
	}
	resp, st := rt.Bus.WaitStatusResponse(ctx, waitBound(res.Timeout))
	if st != events.Delivered {
		rt.Out.TimedOut("req_status")
		return nil
	}
	payload := make(map[string]any, len(resp.Values))
	for k, v := range resp.Values {
		payload[k] = v
	}
	rt.Out.Result("status/"+c.Name, payload)
	return nil
}

func handleReqTelemetry(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	res, err := rt.Device.RequestTelemetry(ctx, c)
	if err != nil {
		return err
	}
	resp, st := rt.Bus.WaitTelemetry(ctx, waitBound(res.Timeout))
	if st != events.Delivered {
		rt.Out.TimedOut("req_telemetry")
		return nil
	}
	payload := make(map[string]any, len(resp.Readings))
	for _, r := range resp.Readings {
		payload[strconv.Itoa(r.Channel)] = r.Value
	}
	rt.Out.Result("telemetry/"+c.Name, payload)
	return nil
}

// req_mma requests min/max/avg sensor history: req_mma <contact>
// [start] [end], times as unix timestamps.
func handleReqMMA(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	start := time.Unix(0, 0)
	end := time.Now()
	if len(inv.Args) > 1 {
		start, err = parseEpoch(inv, inv.Args[1])
		if err != nil {
			return err
		}
	}
	if len(inv.Args) > 2 {
		end, err = parseEpoch(inv, inv.Args[2])
		if err != nil {
			return err
		}
	}
	res, err := rt.Device.RequestMMA(ctx, c, start, end)
	if err != nil {
		return err
	}
	return rt.reportBinary(ctx, "req_mma/"+c.Name, res)
}

func handleReqACL(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	res, err := rt.Device.RequestACL(ctx, c)
	if err != nil {
		return err
	}
	return rt.reportBinary(ctx, "req_acl/"+c.Name, res)
}

func handleReqNeighbours(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.Destination(ctx, inv.Def.Name, firstArg(inv))
	if err != nil {
		return err
	}
	res, err := rt.Device.RequestNeighbours(ctx, c)
	if err != nil {
		return err
	}
	return rt.reportBinary(ctx, "req_neighbours/"+c.Name, res)
}

func handleReqBinary(ctx context.Context, rt *Runtime, inv Invocation) error {
	c, err := rt.ResolveContact(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	res, err := rt.Device.RequestBinary(ctx, c, inv.Args[1])
	if err != nil {
		return err
	}
	return rt.reportBinary(ctx, "req_binary/"+c.Name, res)
}

// trace probes an explicit hop path.
func handleTrace(ctx context.Context, rt *Runtime, inv Invocation) error {
	res, err := rt.Device.Trace(ctx, strings.Join(inv.Args, ","))
	if err != nil {
		return err
	}
	return rt.reportBinary(ctx, "trace", res)
}

func (rt *Runtime) reportBinary(ctx context.Context, what string, res radio.SendResult) error {
	resp, st := rt.Bus.WaitBinary(ctx, waitBound(res.Timeout))
	switch st {
	case events.Delivered:
		rt.Out.Result(what, resp.Data)
	case events.TimedOut:
		rt.Out.TimedOut(what)
	case events.Cancelled:
		return ctx.Err()
	}
	return nil
}

func parseEpoch(inv Invocation, tok string) (time.Time, error) {
	epoch, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return time.Time{}, &InvalidArgumentsError{Command: inv.Def.Name, Token: tok, Reason: "expected a unix timestamp"}
	}
	return time.Unix(epoch, 0), nil
}
