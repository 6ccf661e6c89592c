package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppConfig is the top-level client configuration.
type AppConfig struct {
	// BaseURL is the root URL of the platform API gateway.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PollIntervalSec is how often (in seconds) the notification
	// watcher polls for unread notifications.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// ToastDurationSec is how long (in seconds) an alert stays on
	// screen before auto-expiring.
	ToastDurationSec int `mapstructure:"toast_duration_sec" yaml:"toast_duration_sec"`

	// Theme selects the UI color theme.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// PollInterval returns the poll cadence as a duration.
func (c *AppConfig) PollInterval() time.Duration {
	if c.PollIntervalSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.PollIntervalSec) * time.Second
}

// ToastDuration returns the alert display time as a duration.
func (c *AppConfig) ToastDuration() time.Duration {
	if c.ToastDurationSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ToastDurationSec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/bizhub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "bizhub", "config.yaml")
}

// DefaultDataDir returns the directory holding the local cache database
// and the diagnostics log.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "bizhub")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		PollIntervalSec:  15,
		ToastDurationSec: 5,
		Theme:            "default",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("poll_interval_sec", 15)
	v.SetDefault("toast_duration_sec", 5)
	v.SetDefault("theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = 15
	}
	if cfg.ToastDurationSec <= 0 {
		cfg.ToastDurationSec = 5
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("base_url", cfg.BaseURL)
	v.Set("poll_interval_sec", cfg.PollIntervalSec)
	v.Set("toast_duration_sec", cfg.ToastDurationSec)
	v.Set("theme", cfg.Theme)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
