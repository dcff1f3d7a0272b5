package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/chrstnwhlrt/meshcli/pkg/commands"
	"github.com/chrstnwhlrt/meshcli/pkg/config"
	"github.com/chrstnwhlrt/meshcli/pkg/display"
	"github.com/chrstnwhlrt/meshcli/pkg/events"
	"github.com/chrstnwhlrt/meshcli/pkg/logger"
	"github.com/chrstnwhlrt/meshcli/pkg/radio"
	"github.com/chrstnwhlrt/meshcli/pkg/radio/serialdev"
	"github.com/chrstnwhlrt/meshcli/pkg/store"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		portFlag  string
		baudFlag  int
		jsonFlag  bool
		debugFlag bool
		listFlag  bool
		colorFlag string
	)

	cmd := &cobra.Command{
		Use:     "meshcli [command...]",
		Short:   "Control a mesh radio from the terminal",
		Long:    "meshcli talks to a companion mesh-radio over serial: one-shot commands,\nchained commands, script files, and an interactive chat session.",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		// Errors are rendered through the display layer so that JSON
		// mode stays machine-readable.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag {
				logger.SetLevel(logger.DEBUG)
			}
			if logFile := os.Getenv("MESHCLI_LOG_FILE"); logFile != "" {
				if err := logger.EnableFileLogging(logFile); err != nil {
					return fmt.Errorf("enable file logging: %w", err)
				}
			}

			if listFlag {
				ports, err := serialdev.ListPorts()
				if err != nil {
					return err
				}
				for _, p := range ports {
					fmt.Println(p)
				}
				return nil
			}

			paths := config.ResolveRuntimePaths()
			cfg, err := config.LoadConfig(paths.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if portFlag != "" {
				cfg.Serial.Port = portFlag
			}
			if cmd.Flags().Changed("baud") {
				cfg.Serial.Baud = baudFlag
			}
			if jsonFlag {
				cfg.Display.JSON = true
			}
			switch colorFlag {
			case "on":
				cfg.Display.Color = true
			case "off":
				cfg.Display.Color = false
			case "":
			default:
				return fmt.Errorf("bad --color value %q: expected on or off", colorFlag)
			}

			out := display.New(os.Stdout, cfg.Display.JSON, cfg.Display.Color)
			err = run(cmd.Context(), cfg, paths, out, args)
			if err != nil {
				out.Error(err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&portFlag, "serial", "s", "", "serial port of the device")
	cmd.Flags().IntVarP(&baudFlag, "baud", "b", 115200, "serial baud rate")
	cmd.Flags().BoolVarP(&jsonFlag, "json", "j", false, "JSON output, skip init scripts")
	cmd.Flags().BoolVarP(&debugFlag, "debug", "D", false, "debug logging")
	cmd.Flags().BoolVarP(&listFlag, "list-ports", "l", false, "list serial ports and exit")
	cmd.Flags().StringVarP(&colorFlag, "color", "c", "", "color output: on or off")

	return cmd
}

func run(parent context.Context, cfg *config.Config, paths config.RuntimePaths, out *display.Printer, args []string) error {
	if cfg.Serial.Port == "" {
		return fmt.Errorf("no serial port: use -s or set serial.port in %s", paths.ConfigPath)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	bus := events.NewBus(cfg.EventWindow())
	dev, err := serialdev.Open(cfg.Serial.Port, cfg.Serial.Baud, bus)
	if err != nil {
		return err
	}
	defer dev.Close()

	info, err := dev.SelfInfo(ctx)
	if err != nil {
		return err
	}
	logger.InfoCF("meshcli", "connected", map[string]any{
		"device":   info.Name,
		"firmware": info.FirmwareVersion,
	})

	var archive *store.Archive
	if cfg.Messaging.ArchivePath != "" {
		archive, err = store.Open(cfg.Messaging.ArchivePath)
		if err != nil {
			logger.WarnCF("archive", "disabled", map[string]any{"error": err.Error()})
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	rt := &commands.Runtime{
		Device:  dev,
		Bus:     bus,
		Cfg:     cfg,
		Archive: archive,
		Out:     out,
	}
	disp := commands.NewDispatcher(commands.DefaultRegistry(), rt)

	if !cfg.Display.JSON {
		runInitScripts(ctx, disp, paths, info)
	}

	target := ""
	interactive := len(args) == 0
	if len(args) > 0 {
		switch args[0] {
		case "chat", "im", "interactive":
			interactive = true
			args = args[1:]
		case "chat_to", "imto":
			if len(args) < 2 {
				return fmt.Errorf("%s: missing contact name", args[0])
			}
			interactive = true
			target = args[1]
			args = args[2:]
		}
	}

	if interactive {
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments after chat: %v", args)
		}
		return runChat(ctx, disp, cfg, info, target)
	}
	return disp.RunChain(ctx, args)
}

// runInitScripts runs the global and per-device init scripts when
// they exist. A failing script is reported but does not block the
// session.
func runInitScripts(ctx context.Context, disp *commands.Dispatcher, paths config.RuntimePaths, info radio.SelfInfo) {
	for _, script := range []string{paths.InitScript, paths.DeviceInitScript(info.Name)} {
		if _, err := os.Stat(script); err != nil {
			continue
		}
		if err := disp.RunScript(ctx, script); err != nil {
			logger.WarnCF("init", "script failed", map[string]any{
				"script": script,
				"error":  err.Error(),
			})
		}
	}
}
