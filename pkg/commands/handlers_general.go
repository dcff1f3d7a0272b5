package commands

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"time"

	"github.com/mdp/qrterminal/v3"

	"github.com/chrstnwhlrt/meshcli/pkg/radio"
)

func handleInfos(ctx context.Context, rt *Runtime, _ Invocation) error {
	info, err := rt.Device.SelfInfo(ctx)
	if err != nil {
		return err
	}
	rt.Out.Result("infos", map[string]any{
		"name":       info.Name,
		"public_key": info.PublicKey,
		"firmware":   info.FirmwareVersion,
		"model":      info.Model,
		"frequency":  info.Frequency,
		"tx_power":   info.TxPower,
	})
	return nil
}

func handleVer(ctx context.Context, rt *Runtime, _ Invocation) error {
	info, err := rt.Device.SelfInfo(ctx)
	if err != nil {
		return err
	}
	rt.Out.Result("ver", info.FirmwareVersion)
	return nil
}

func handleBattery(ctx context.Context, rt *Runtime, _ Invocation) error {
	bat, err := rt.Device.Battery(ctx)
	if err != nil {
		return err
	}
	rt.Out.Result("battery", map[string]any{
		"millivolts": bat.Millivolts,
		"percent":    bat.Percent,
	})
	return nil
}

func handleClock(ctx context.Context, rt *Runtime, _ Invocation) error {
	t, err := rt.Device.Clock(ctx)
	if err != nil {
		return err
	}
	rt.Out.Result("clock", t.Format(time.RFC3339))
	return nil
}

// sync_time sets the device clock from the host.
func handleSyncTime(ctx context.Context, rt *Runtime, _ Invocation) error {
	if err := rt.Device.SetClock(ctx, time.Now()); err != nil {
		return err
	}
	rt.Out.Info("device clock synchronized")
	return nil
}

// time sets the device clock to an explicit unix timestamp.
func handleTime(ctx context.Context, rt *Runtime, inv Invocation) error {
	epoch, err := strconv.ParseInt(inv.Args[0], 10, 64)
	if err != nil {
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a unix timestamp"}
	}
	if err := rt.Device.SetClock(ctx, time.Unix(epoch, 0)); err != nil {
		return err
	}
	rt.Out.Info("device clock set")
	return nil
}

func handleAdvert(ctx context.Context, rt *Runtime, _ Invocation) error {
	if err := rt.Device.SendAdvert(ctx, false); err != nil {
		return err
	}
	rt.Out.Info("advert sent")
	return nil
}

func handleFloodAdvert(ctx context.Context, rt *Runtime, _ Invocation) error {
	if err := rt.Device.SendAdvert(ctx, true); err != nil {
		return err
	}
	rt.Out.Info("flood advert sent")
	return nil
}

func handleReboot(ctx context.Context, rt *Runtime, _ Invocation) error {
	return rt.Device.Reboot(ctx)
}

func handleGet(ctx context.Context, rt *Runtime, inv Invocation) error {
	val, err := rt.Device.GetParam(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	rt.Out.Result(inv.Args[0], val)
	return nil
}

func handleSet(ctx context.Context, rt *Runtime, inv Invocation) error {
	if err := rt.Device.SetParam(ctx, inv.Args[0], inv.Args[1]); err != nil {
		return err
	}
	rt.Out.Info("%s set", inv.Args[0])
	return nil
}

func handleStats(ctx context.Context, rt *Runtime, inv Invocation) error {
	kind := "core"
	if len(inv.Args) > 0 {
		kind = inv.Args[0]
	}
	switch kind {
	case "core", "radio", "packets":
	default:
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: kind, Reason: "expected core, radio or packets"}
	}
	// Stats keys depend on the firmware, so the payload stays opaque.
	stats, err := rt.Device.Stats(ctx, radio.StatsKind(kind))
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(stats))
	for k, v := range stats {
		payload[k] = v
	}
	rt.Out.Result("stats/"+kind, payload)
	return nil
}

func handleGetVars(ctx context.Context, rt *Runtime, _ Invocation) error {
	vars, err := rt.Device.GetVars(ctx)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(vars))
	for k, v := range vars {
		payload[k] = v
	}
	rt.Out.Result("vars", payload)
	return nil
}

func handleSetVar(ctx context.Context, rt *Runtime, inv Invocation) error {
	if err := rt.Device.SetVar(ctx, inv.Args[0], inv.Args[1]); err != nil {
		return err
	}
	rt.Out.Info("%s set", inv.Args[0])
	return nil
}

func handleExportKey(ctx context.Context, rt *Runtime, _ Invocation) error {
	key, err := rt.Device.ExportKey(ctx)
	if err != nil {
		return err
	}
	rt.Out.Result("private_key", key)
	return nil
}

func handleImportKey(ctx context.Context, rt *Runtime, inv Invocation) error {
	if err := rt.Device.ImportKey(ctx, inv.Args[0]); err != nil {
		return err
	}
	rt.Out.Info("key imported, reboot to apply")
	return nil
}

func handleSelfTelemetry(ctx context.Context, rt *Runtime, _ Invocation) error {
	readings, err := rt.Device.SelfTelemetry(ctx)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(readings))
	for _, r := range readings {
		payload[strconv.Itoa(r.Channel)] = r.Value
	}
	rt.Out.Result("telemetry", payload)
	return nil
}

// card prints the node's shareable URI, with a scannable QR code in
// human mode.
func handleCard(ctx context.Context, rt *Runtime, _ Invocation) error {
	uri, err := rt.Device.CardURI(ctx)
	if err != nil {
		return err
	}
	if !rt.Out.JSON() {
		qrterminal.GenerateWithConfig(uri, qrterminal.Config{
			Level:     qrterminal.L,
			Writer:    os.Stdout,
			BlackChar: qrterminal.BLACK,
			WhiteChar: qrterminal.WHITE,
			QuietZone: 1,
		})
	}
	rt.Out.Result("card", uri)
	return nil
}

func handleNodeDiscover(ctx context.Context, rt *Runtime, _ Invocation) error {
	if err := rt.Device.NodeDiscover(ctx); err != nil {
		return err
	}
	rt.Out.Info("discovery probe sent")
	return nil
}

func handleScope(_ context.Context, rt *Runtime, inv Invocation) error {
	if rt.Nav == nil {
		return &InvalidArgumentsError{Command: inv.Def.Name, Reason: "only available in interactive mode"}
	}
	rt.Nav.SetFloodScope(inv.Args[0])
	rt.Out.Info("flood scope set to %s", inv.Args[0])
	return nil
}

func handleSleep(ctx context.Context, rt *Runtime, inv Invocation) error {
	secs, err := strconv.Atoi(inv.Args[0])
	if err != nil || secs < 0 {
		return &InvalidArgumentsError{Command: inv.Def.Name, Token: inv.Args[0], Reason: "expected a non-negative number of seconds"}
	}
	select {
	case <-time.After(time.Duration(secs) * time.Second):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func handleWaitKey(_ context.Context, rt *Runtime, _ Invocation) error {
	rt.Out.Info("press enter to continue")
	reader := bufio.NewReader(os.Stdin)
	_, err := reader.ReadString('\n')
	return err
}
