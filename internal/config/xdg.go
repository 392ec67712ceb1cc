package config

import (
	"os"
	"path/filepath"
)

const appName = "bolo"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultListDir returns the directory holding prompt lists.
func DefaultListDir() string {
	return filepath.Join(XDGConfigHome(), appName, "lists")
}

// DefaultListPath builds the path of a named prompt list.
func DefaultListPath(name string) string {
	return filepath.Join(DefaultListDir(), name+".txt")
}

// DefaultMappingPath returns the path of the user's vowel mapping override.
func DefaultMappingPath() string {
	return filepath.Join(XDGConfigHome(), appName, "mapping.yaml")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
