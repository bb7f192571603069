// Package config loads the TOML user configuration from ~/.cmdeck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	dark "github.com/thiagokokada/dark-mode-go"
)

// FileName is the TOML config file for user preferences.
const FileName = "config.toml"

// ConfigDirName is the dot-directory under the user's home.
const ConfigDirName = ".cmdeck"

// UserConfig represents user-facing configuration in TOML format.
type UserConfig struct {
	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	// Palette defines command palette behavior
	Palette PaletteSettings `toml:"palette"`

	// Workspaces declares the switcher destinations the shell offers
	Workspaces []WorkspaceDef `toml:"workspaces"`

	// Server defines the local control server settings
	Server ServerSettings `toml:"server"`

	// Logs defines log management settings
	Logs LogSettings `toml:"logs"`
}

// PaletteSettings defines command palette behavior.
type PaletteSettings struct {
	// MaxResults caps rendered rows (default: 12)
	MaxResults int `toml:"max_results"`

	// MaxCandidates caps the list handed to the engine per pass; oversized
	// switcher lists are prefiltered down to this (default: 400)
	MaxCandidates int `toml:"max_candidates"`
}

// WorkspaceDef declares one switcher destination.
type WorkspaceDef struct {
	Name string   `toml:"name"`
	Path string   `toml:"path"`
	Tabs []string `toml:"tabs"`
}

// ServerSettings defines the local control server.
type ServerSettings struct {
	// Enabled starts the control server alongside the TUI (default: false)
	Enabled bool `toml:"enabled"`

	// ListenAddr is the bind address (default: 127.0.0.1:8427)
	ListenAddr string `toml:"listen_addr"`
}

// LogSettings defines log management.
type LogSettings struct {
	// Level is "debug", "info", "warn", or "error" (default: info)
	Level string `toml:"level"`

	// MaxSizeMB before rotation (default: 10)
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups of rotated files to keep (default: 5)
	MaxBackups int `toml:"max_backups"`
}

var defaultUserConfig = UserConfig{
	Theme: "dark",
	Palette: PaletteSettings{
		MaxResults:    12,
		MaxCandidates: 400,
	},
	Server: ServerSettings{
		ListenAddr: "127.0.0.1:8427",
	},
	Logs: LogSettings{
		Level: "info",
	},
}

var (
	cache   *UserConfig
	cacheMu sync.RWMutex
)

// Dir returns the cmdeck config/state directory, honoring CMDECK_HOME for
// tests and sandboxed runs.
func Dir() (string, error) {
	if dir := os.Getenv("CMDECK_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home dir: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the user config, caching the result. A missing file yields
// defaults; a parse error yields defaults plus the error so the caller can
// surface it.
func Load() (*UserConfig, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cache != nil {
		return cache, nil
	}

	path, err := Path()
	if err != nil {
		cache = cloneDefault()
		return cache, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cache = cloneDefault()
		return cache, nil
	}

	cfg := *cloneDefault()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		cache = cloneDefault()
		return cache, fmt.Errorf("config.toml parse error: %w", err)
	}
	applyDefaults(&cfg)
	cache = &cfg
	return cache, nil
}

// ClearCache drops the cached config (tests, config reload).
func ClearCache() {
	cacheMu.Lock()
	cache = nil
	cacheMu.Unlock()
}

func cloneDefault() *UserConfig {
	cfg := defaultUserConfig
	return &cfg
}

func applyDefaults(cfg *UserConfig) {
	if cfg.Palette.MaxResults <= 0 {
		cfg.Palette.MaxResults = defaultUserConfig.Palette.MaxResults
	}
	if cfg.Palette.MaxCandidates <= 0 {
		cfg.Palette.MaxCandidates = defaultUserConfig.Palette.MaxCandidates
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultUserConfig.Server.ListenAddr
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = defaultUserConfig.Logs.Level
	}
	switch cfg.Theme {
	case "dark", "light", "system":
	default:
		cfg.Theme = "dark"
	}
}

// ResolveTheme maps the configured theme to "dark" or "light", consulting
// the OS for "system". Detection failure falls back to dark.
func (c *UserConfig) ResolveTheme() string {
	if c.Theme != "system" {
		return c.Theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil || isDark {
		return "dark"
	}
	return "light"
}
