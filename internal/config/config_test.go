package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightstats.toml")
	content := `
[logging]
level = "debug"
format = "json"

[chart]
dpi = 150

[export]
pdf = true

[storage]
enabled = true
sqlite_path = "history.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Chart.DPI != 150 {
		t.Errorf("dpi = %d, want 150", cfg.Chart.DPI)
	}
	if cfg.Chart.WidthInches != 16 || cfg.Chart.HeightInches != 12 {
		t.Errorf("chart size default lost: %+v", cfg.Chart)
	}
	if !cfg.Export.PDF || cfg.Export.XLSX {
		t.Errorf("export = %+v", cfg.Export)
	}
	if !cfg.Storage.Enabled || cfg.Storage.SQLitePath != "history.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing file err = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[chart\ndpi = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("bad toml err = %v", err)
	}
}

func TestLoadWithFallbackExplicitPathMustExist(t *testing.T) {
	if _, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadWithFallbackDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadWithFallback("")
	if err != nil {
		t.Fatalf("LoadWithFallback: %v", err)
	}
	if cfg.Chart.DPI != Default().Chart.DPI {
		t.Errorf("expected defaults, got %+v", cfg.Chart)
	}

	if err := os.WriteFile("flightstats.toml", []byte("[chart]\ndpi = 72\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadWithFallback("")
	if err != nil {
		t.Fatalf("LoadWithFallback: %v", err)
	}
	if cfg.Chart.DPI != 72 {
		t.Errorf("dpi = %d, want 72 from flightstats.toml", cfg.Chart.DPI)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "log level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
		{"chart size", func(c *Config) { c.Chart.WidthInches = 0 }, "chart size"},
		{"dpi", func(c *Config) { c.Chart.DPI = 5000 }, "dpi"},
		{"line width", func(c *Config) { c.Chart.LineWidth = -1 }, "line width"},
		{"grid alpha", func(c *Config) { c.Chart.GridAlpha = 1.5 }, "grid alpha"},
		{"storage path", func(c *Config) { c.Storage.Enabled = true; c.Storage.SQLitePath = "" }, "sqlite_path"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"timeouts", func(c *Config) { c.Server.ReadTimeoutSecs = -1 }, "timeouts"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}
