package config

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFrom(t *testing.T, contents string) (*UserConfig, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CMDECK_HOME", dir)
	ClearCache()
	t.Cleanup(ClearCache)

	if contents != "" {
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return Load()
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := loadFrom(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if cfg.Palette.MaxResults != 12 || cfg.Palette.MaxCandidates != 400 {
		t.Errorf("palette defaults = %+v", cfg.Palette)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:8427" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
}

func TestLoadParsesWorkspaces(t *testing.T) {
	cfg, err := loadFrom(t, `
theme = "light"

[palette]
max_results = 8

[[workspaces]]
name = "api"
path = "~/src/api"
tabs = ["editor", "logs"]

[[workspaces]]
name = "web"
path = "~/src/web"
`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if cfg.Palette.MaxResults != 8 {
		t.Errorf("MaxResults = %d", cfg.Palette.MaxResults)
	}
	// Unset values keep defaults.
	if cfg.Palette.MaxCandidates != 400 {
		t.Errorf("MaxCandidates = %d", cfg.Palette.MaxCandidates)
	}
	if len(cfg.Workspaces) != 2 || cfg.Workspaces[0].Name != "api" || len(cfg.Workspaces[0].Tabs) != 2 {
		t.Errorf("Workspaces = %+v", cfg.Workspaces)
	}
}

func TestLoadParseErrorFallsBackToDefaults(t *testing.T) {
	cfg, err := loadFrom(t, "theme = [broken")
	if err == nil {
		t.Error("want parse error")
	}
	if cfg == nil || cfg.Theme != "dark" {
		t.Errorf("broken config should fall back to defaults, got %+v", cfg)
	}
}

func TestInvalidThemeNormalized(t *testing.T) {
	cfg, err := loadFrom(t, `theme = "solarized"`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("invalid theme should normalize to dark, got %q", cfg.Theme)
	}
}

func TestResolveThemeNonSystem(t *testing.T) {
	cfg := &UserConfig{Theme: "light"}
	if got := cfg.ResolveTheme(); got != "light" {
		t.Errorf("ResolveTheme = %q", got)
	}
	cfg.Theme = "dark"
	if got := cfg.ResolveTheme(); got != "dark" {
		t.Errorf("ResolveTheme = %q", got)
	}
}
