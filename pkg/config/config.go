package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// SerialConfig selects the device link.
type SerialConfig struct {
	Port string `json:"port" env:"MESHCLI_SERIAL_PORT"`
	Baud int    `json:"baud" env:"MESHCLI_SERIAL_BAUD"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Color bool `json:"color" env:"MESHCLI_COLOR"`
	JSON  bool `json:"json" env:"MESHCLI_JSON"`
}

// MessagingConfig tunes ack waits and the message archive.
type MessagingConfig struct {
	// AckTimeoutSeconds is the default wait_ack bound; per-contact
	// overrides take precedence.
	AckTimeoutSeconds int            `json:"ack_timeout_seconds" env:"MESHCLI_ACK_TIMEOUT"`
	ContactTimeouts   map[string]int `json:"contact_timeouts,omitempty"`
	ArchivePath       string         `json:"archive_path" env:"MESHCLI_ARCHIVE_PATH"`
	ChannelEcho       bool           `json:"channel_echo" env:"MESHCLI_CHANNEL_ECHO"`
}

// SessionConfig tunes interactive mode.
type SessionConfig struct {
	AutoReloadContacts bool   `json:"auto_reload_contacts" env:"MESHCLI_AUTO_RELOAD_CONTACTS"`
	HistoryFile        string `json:"history_file" env:"MESHCLI_HISTORY_FILE"`
	// EventWindowSeconds bounds how long unconsumed events stay
	// buffered for late waits.
	EventWindowSeconds int `json:"event_window_seconds" env:"MESHCLI_EVENT_WINDOW"`
}

type Config struct {
	Serial    SerialConfig    `json:"serial"`
	Display   DisplayConfig   `json:"display"`
	Messaging MessagingConfig `json:"messaging"`
	Session   SessionConfig   `json:"session"`
}

func DefaultConfig() *Config {
	paths := ResolveRuntimePaths()
	return &Config{
		Serial: SerialConfig{
			Baud: 115200,
		},
		Display: DisplayConfig{
			Color: true,
		},
		Messaging: MessagingConfig{
			AckTimeoutSeconds: 30,
			ArchivePath:       filepath.Join(paths.HomeDir, "messages.db"),
		},
		Session: SessionConfig{
			AutoReloadContacts: true,
			HistoryFile:        filepath.Join(paths.HomeDir, "history"),
			EventWindowSeconds: 300,
		},
	}
}

// LoadConfig reads path over the defaults and applies MESHCLI_* env
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// AckTimeout returns the wait_ack bound for the named contact,
// falling back to the global default.
func (c *Config) AckTimeout(contact string) time.Duration {
	if s, ok := c.Messaging.ContactTimeouts[contact]; ok && s > 0 {
		return time.Duration(s) * time.Second
	}
	return time.Duration(c.Messaging.AckTimeoutSeconds) * time.Second
}

// EventWindow returns the event buffer retention window.
func (c *Config) EventWindow() time.Duration {
	return time.Duration(c.Session.EventWindowSeconds) * time.Second
}
