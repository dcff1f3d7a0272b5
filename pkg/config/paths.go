package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvMeshcliConfig = "MESHCLI_CONFIG"
	EnvMeshcliHome   = "MESHCLI_HOME"
)

type RuntimePaths struct {
	HomeDir    string
	ConfigPath string
	InitScript string
}

// ResolveRuntimePaths picks the config location: MESHCLI_CONFIG wins,
// then MESHCLI_HOME, then ~/.meshcli.
func ResolveRuntimePaths() RuntimePaths {
	if configPath := expandHome(strings.TrimSpace(os.Getenv(EnvMeshcliConfig))); configPath != "" {
		return buildRuntimePaths(filepath.Dir(configPath), configPath)
	}

	homeDir := expandHome(strings.TrimSpace(os.Getenv(EnvMeshcliHome)))
	if homeDir == "" {
		homeDir = defaultMeshcliHome()
	}

	return buildRuntimePaths(homeDir, filepath.Join(homeDir, "config.json"))
}

// DeviceInitScript is the per-device init script path, run on connect
// after the global one.
func (p RuntimePaths) DeviceInitScript(deviceName string) string {
	return filepath.Join(p.HomeDir, deviceName+".init")
}

func defaultMeshcliHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".meshcli"
	}
	return filepath.Join(home, ".meshcli")
}

func buildRuntimePaths(homeDir, configPath string) RuntimePaths {
	return RuntimePaths{
		HomeDir:    homeDir,
		ConfigPath: configPath,
		InitScript: filepath.Join(homeDir, "init"),
	}
}

func expandHome(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
