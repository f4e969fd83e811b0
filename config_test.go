package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aktagon/asset-seeder/internal/objstore"
)

func TestParseSettingsDefaults(t *testing.T) {
	settings, err := parseSettings(nil)
	if err != nil {
		t.Fatalf("parseSettings() error = %v", err)
	}

	if settings.PublicPathPrefix != "uploads" {
		t.Errorf("PublicPathPrefix = %q, want uploads", settings.PublicPathPrefix)
	}
	if settings.CacheControl != "public, max-age=31536000" {
		t.Errorf("CacheControl = %q", settings.CacheControl)
	}
	if settings.RequestDelay() != 250*time.Millisecond {
		t.Errorf("RequestDelay() = %v, want 250ms", settings.RequestDelay())
	}
	if settings.HTTPTimeout() != 0 {
		t.Errorf("HTTPTimeout() = %v, want 0", settings.HTTPTimeout())
	}
}

func TestParseSettingsOverridesDefaults(t *testing.T) {
	settings, err := parseSettings([]byte("public_path_prefix: \"\"\nrequest_delay_ms: -5\nhttp_timeout_seconds: 30\n"))
	if err != nil {
		t.Fatal(err)
	}

	if settings.PublicPathPrefix != "" {
		t.Errorf("PublicPathPrefix = %q, want empty", settings.PublicPathPrefix)
	}
	if settings.RequestDelayMS != 0 {
		t.Errorf("RequestDelayMS = %d, want negative values clamped to 0", settings.RequestDelayMS)
	}
	if settings.HTTPTimeout() != 30*time.Second {
		t.Errorf("HTTPTimeout() = %v, want 30s", settings.HTTPTimeout())
	}
	// untouched keys keep their defaults
	if settings.CacheControl != "public, max-age=31536000" {
		t.Errorf("CacheControl = %q", settings.CacheControl)
	}
}

func TestParseSettingsInvalidYAML(t *testing.T) {
	if _, err := parseSettings([]byte("request_delay_ms: [")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	settings, err := loadSettings(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("loadSettings() on a missing file error = %v", err)
	}
	if settings.PublicPathPrefix != "uploads" {
		t.Errorf("PublicPathPrefix = %q, want default", settings.PublicPathPrefix)
	}

	if _, err := loadSettingsRequired(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("loadSettingsRequired() expected an error for a missing file")
	}
}

func TestEnsureConfigExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), defaultConfigDir)

	path, created, err := ensureConfigExists(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first call should create settings.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != defaultSettings {
		t.Error("written settings differ from the embedded defaults")
	}

	if err := os.WriteFile(path, []byte("request_delay_ms: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, created, err = ensureConfigExists(dir)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second call should keep the existing file")
	}
	data, _ = os.ReadFile(path)
	if string(data) != "request_delay_ms: 0\n" {
		t.Error("existing settings.yaml was overwritten")
	}
}

func TestGetOutputDirectory(t *testing.T) {
	override := "/tmp/seed-out"

	tests := []struct {
		name      string
		settings  Settings
		overrides *ConfigOverrides
		expected  string
	}{
		{"override", Settings{OutputDirectory: "sql"}, &ConfigOverrides{OutputDir: &override}, override},
		{"settings", Settings{OutputDirectory: "sql"}, &ConfigOverrides{}, "sql"},
		{"default", Settings{}, nil, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Settings: &tt.settings, Overrides: tt.overrides}
			if got := c.GetOutputDirectory(); got != tt.expected {
				t.Errorf("GetOutputDirectory() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetSeedData(t *testing.T) {
	hero, err := LookupContentType("hero")
	if err != nil {
		t.Fatal(err)
	}

	c := &Config{Settings: &Settings{}}
	embedded, err := c.GetSeedData(hero)
	if err != nil || len(embedded) == 0 {
		t.Fatalf("GetSeedData() embedded = %d bytes, %v", len(embedded), err)
	}

	path := filepath.Join(t.TempDir(), "hero.yaml")
	if err := os.WriteFile(path, []byte("items: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c.Overrides = &ConfigOverrides{SeedsPath: &path}
	data, err := c.GetSeedData(hero)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "items: []\n" {
		t.Errorf("GetSeedData() = %q, want override file contents", data)
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	c.Overrides.SeedsPath = &missing
	if _, err := c.GetSeedData(hero); err == nil {
		t.Error("expected an error for a missing seed file")
	}
}

func TestNewConfigRequiresStorage(t *testing.T) {
	for _, k := range []string{"VITE_AWS_S3_BUCKET_NAME", "AWS_S3_BUCKET_NAME", "VITE_R2_PUBLIC_URL", "R2_PUBLIC_URL"} {
		t.Setenv(k, "")
	}
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(settingsPath, []byte("request_delay_ms: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewConfig(&ConfigOverrides{SettingsPath: &settingsPath})
	var cfgErr *objstore.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewConfig() error = %v, want *objstore.ConfigError", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Errorf("Missing = %v, want bucket and public URL", cfgErr.Missing)
	}

	t.Setenv("AWS_S3_BUCKET_NAME", "charity")
	t.Setenv("VITE_R2_PUBLIC_URL", "https://cdn.example")
	config, err := NewConfig(&ConfigOverrides{SettingsPath: &settingsPath})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if config.Storage.Bucket != "charity" || config.Storage.PublicURL != "https://cdn.example" {
		t.Errorf("Storage = %+v", config.Storage)
	}
	if config.Settings.RequestDelayMS != 0 {
		t.Errorf("RequestDelayMS = %d, want 0 from the settings file", config.Settings.RequestDelayMS)
	}
}
