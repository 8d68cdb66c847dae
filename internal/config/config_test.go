package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/hamster-cli/internal/config"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Backend != config.BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Backend, config.BackendFile)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.List.SpanDates {
		t.Error("List.SpanDates should default to false")
	}
	if cfg.Outlook.TenantID != config.DefaultTenantID || cfg.Outlook.ClientID != config.DefaultClientID {
		t.Errorf("Outlook = %+v, want defaults", cfg.Outlook)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "backend: dbus\ndata_dir: /tmp/facts\nlist:\n  span_dates: true\noutlook:\n  default_category: Calls\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HAMSTER_LOG_LEVEL", "debug")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Backend != config.BackendDBus {
		t.Errorf("Backend = %q, want dbus", cfg.Backend)
	}
	if cfg.DataDir != "/tmp/facts" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if !cfg.List.SpanDates {
		t.Error("List.SpanDates = false, want true")
	}
	if cfg.Outlook.DefaultCategory != "Calls" {
		t.Errorf("DefaultCategory = %q, want Calls", cfg.Outlook.DefaultCategory)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug from env", cfg.Log.Level)
	}
}

func TestLoadFileRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: sqlite\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFile(path); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFile(path); err == nil {
		t.Fatal("expected error for corrupt YAML")
	}
}

func TestLoadWritesTemplate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(home, ".hamster", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, ".hamster") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Outlook.ClientID != config.DefaultClientID {
		t.Errorf("ClientID = %q, want %q", cfg.Outlook.ClientID, config.DefaultClientID)
	}
}
