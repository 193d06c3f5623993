package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.DataDir != dir {
		t.Errorf("Expected data dir %s, got %s", dir, cfg.DataDir)
	}
	if cfg.CredentialsPath() != filepath.Join(dir, CredentialsFile) {
		t.Errorf("Unexpected credentials path %s", cfg.CredentialsPath())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := "api_url: https://tasks.example.com\ntimeout: 30s\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "https://tasks.example.com" {
		t.Errorf("Expected configured URL, got %s", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Timeout)
	}
	// Unset fields keep their defaults
	if cfg.DataDir != dir {
		t.Errorf("Expected default data dir, got %s", cfg.DataDir)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("api_url: [broken"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Expected error for malformed config")
	}
}

func TestDefaultConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg-test", AppName) {
		t.Errorf("Unexpected config dir %s", got)
	}
}
