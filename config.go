package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aktagon/asset-seeder/internal/objstore"
)

const defaultConfigDir = ".asset-seeder"

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath *string
	SeedsPath    *string
	OutputDir    *string
	DryRun       bool
}

//go:embed config/settings.yaml
var defaultSettings string

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory    string `yaml:"output_directory"`
	PublicPathPrefix   string `yaml:"public_path_prefix"`
	CacheControl       string `yaml:"cache_control"`
	RequestDelayMS     int    `yaml:"request_delay_ms"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
}

// RequestDelay returns the configured spacing between records
func (s *Settings) RequestDelay() time.Duration {
	return time.Duration(s.RequestDelayMS) * time.Millisecond
}

// HTTPTimeout returns the asset download timeout, zero meaning none
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// Config holds settings, storage configuration and overrides
type Config struct {
	Settings  *Settings
	Storage   objstore.Config
	Overrides *ConfigOverrides
}

// NewConfig loads settings and the storage environment. A missing bucket
// or public URL fails here, before any record is touched.
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if overrides == nil {
		overrides = &ConfigOverrides{}
	}

	var settings *Settings
	var err error
	if overrides.SettingsPath != nil {
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
	} else {
		settings, err = loadSettings(getConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	storage, err := objstore.LoadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Settings:  settings,
		Storage:   storage,
		Overrides: overrides,
	}, nil
}

// GetOutputDirectory returns the output directory (from override or settings)
func (c *Config) GetOutputDirectory() string {
	if c.Overrides != nil && c.Overrides.OutputDir != nil {
		return *c.Overrides.OutputDir
	}
	if c.Settings.OutputDirectory == "" {
		return "."
	}
	return c.Settings.OutputDirectory
}

// GetSeedData returns the seed list for a content type (from override file or embedded)
func (c *Config) GetSeedData(ct *ContentType) ([]byte, error) {
	if c.Overrides != nil && c.Overrides.SeedsPath != nil {
		data, err := os.ReadFile(*c.Overrides.SeedsPath)
		if err != nil {
			return nil, fmt.Errorf("reading seed file %s: %w", *c.Overrides.SeedsPath, err)
		}
		return data, nil
	}
	return embeddedSeeds(ct.Name)
}

// parseSettings applies data on top of the embedded defaults
func parseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing default settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}
	if settings.RequestDelayMS < 0 {
		settings.RequestDelayMS = 0
	}
	return &settings, nil
}

// loadSettings loads settings from YAML file with fallback to defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		debugLog("no settings at %s, using defaults", settingsPath)
		return parseSettings(nil)
	}
	return parseSettings(data)
}

// loadSettingsRequired loads settings from YAML file, failing if file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}
	return parseSettings(data)
}

// getConfigPath returns the path to a config file in the .asset-seeder directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes settings.yaml if needed.
// It returns the settings path and whether it was created.
func ensureConfigExists(dir string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := filepath.Join(dir, "settings.yaml")
	if _, err := os.Stat(settingsFile); err == nil {
		return settingsFile, false, nil
	}

	if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
		return "", false, fmt.Errorf("writing settings.yaml: %w", err)
	}
	return settingsFile, true, nil
}
