package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8710 {
		t.Errorf("expected default port 8710, got %d", cfg.Port)
	}
	if cfg.LogLevel != LogInfo {
		t.Errorf("expected default log_level %q, got %q", LogInfo, cfg.LogLevel)
	}
	if cfg.GuideAutoDismissSeconds != 12 {
		t.Errorf("expected default guide_auto_dismiss_seconds 12, got %d", cfg.GuideAutoDismissSeconds)
	}
	if cfg.AllowAllOrigins {
		t.Error("expected allow_all_origins to default to false")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.accesskit.yml")

	original := DefaultConfig()
	original.Port = 9000
	original.DataDir = "var/accesskit"
	original.ReportEndpoint = "https://collector.example/consent"
	original.LogLevel = LogDebug

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.ReportEndpoint != original.ReportEndpoint {
		t.Errorf("report_endpoint: got %q, want %q", loaded.ReportEndpoint, original.ReportEndpoint)
	}
	if loaded.LogLevel != original.LogLevel {
		t.Errorf("log_level: got %q, want %q", loaded.LogLevel, original.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 8710 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("ACCESSKIT_PORT", "9443")
	os.Setenv("ACCESSKIT_LOG_LEVEL", "warn")
	defer os.Unsetenv("ACCESSKIT_PORT")
	defer os.Unsetenv("ACCESSKIT_LOG_LEVEL")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9443 {
		t.Errorf("expected env override port 9443, got %d", loaded.Port)
	}
	if loaded.LogLevel != LogWarn {
		t.Errorf("expected env override log_level warn, got %q", loaded.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative auto dismiss", func(c *Config) { c.GuideAutoDismissSeconds = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"bad report endpoint", func(c *Config) { c.ReportEndpoint = "ftp://x" }, true},
		{"good report endpoint", func(c *Config) { c.ReportEndpoint = "https://collector.example" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
