package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Browser.Name != "chrome" {
		t.Errorf("default browser = %q, want chrome", cfg.Browser.Name)
	}
	if cfg.Timeouts.ErrorDetection != 3 {
		t.Errorf("default error detection timeout = %d, want 3", cfg.Timeouts.ErrorDetection)
	}
	if cfg.LoginURL() != "https://www.hudl.com/login" {
		t.Errorf("LoginURL() = %q, want base + /login", cfg.LoginURL())
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
browser:
  name: firefox
  headless: true
urls:
  base: https://staging.example.com
timeouts:
  pageLoad: 45
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browser.Name != "firefox" {
		t.Errorf("browser = %q, want firefox", cfg.Browser.Name)
	}
	if !cfg.Browser.Headless {
		t.Error("headless should be true")
	}
	if cfg.Timeouts.PageLoad != 45 {
		t.Errorf("pageLoad = %d, want 45", cfg.Timeouts.PageLoad)
	}
	// Untouched keys keep their defaults
	if cfg.Timeouts.ErrorDetection != 3 {
		t.Errorf("errorDetection = %d, want default 3", cfg.Timeouts.ErrorDetection)
	}
	if cfg.LoginURL() != "https://staging.example.com/login" {
		t.Errorf("LoginURL() = %q", cfg.LoginURL())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
browser:
  name: firefox
`)
	t.Setenv("BROWSER", "WebKit")
	t.Setenv("BASE_URL", "https://env.example.com")
	t.Setenv("HEADLESS", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browser.Name != "webkit" {
		t.Errorf("browser = %q, want webkit from env", cfg.Browser.Name)
	}
	if cfg.URLs.Base != "https://env.example.com" {
		t.Errorf("base URL = %q, want env value", cfg.URLs.Base)
	}
	if !cfg.Browser.Headless {
		t.Error("HEADLESS=1 should enable headless")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unsupported browser", "browser:\n  name: netscape\n"},
		{"negative timeout", "timeouts:\n  pageLoad: -1\n"},
		{"empty base url", "urls:\n  base: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.yaml)
			if _, err := Load(path); err == nil {
				t.Error("Load() should reject invalid settings")
			}
		})
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "browser:\n  name: chromium\n")

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Browser.Name != "chromium" {
		t.Errorf("browser = %q, want chromium", cfg.Browser.Name)
	}

	// Empty dir falls back to defaults
	cfg, err = LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromDir() on empty dir error = %v", err)
	}
	if cfg.Browser.Name != "chrome" {
		t.Errorf("browser = %q, want default chrome", cfg.Browser.Name)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit path should fail")
	}
}
