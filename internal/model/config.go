package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the task-board backend.
type ServerConfig struct {
	// BaseURL is the root URL of the backend API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Channel is the logical activity channel to subscribe to,
	// typically one per board.
	Channel string `mapstructure:"channel" yaml:"channel"`

	// FetchTimeoutSec bounds the historical activity query.
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
}

// FeedConfig holds retention caps for the activity surfaces.
type FeedConfig struct {
	// PanelCap is the maximum number of events kept for the
	// notification panel.
	PanelCap int `mapstructure:"panel_cap" yaml:"panel_cap"`

	// FeedCap is the maximum number of events kept for the full
	// activity feed.
	FeedCap int `mapstructure:"feed_cap" yaml:"feed_cap"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Identity is the local user's display name; events whose actor
	// matches it never trigger notifications.
	Identity string `mapstructure:"identity" yaml:"identity"`

	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Feed    FeedConfig    `mapstructure:"feed" yaml:"feed"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/pulse/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "pulse", "config.yaml")
}

// DefaultDataPath returns the default path for the local SQLite database.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "pulse.db")
	}
	return filepath.Join(home, ".local", "share", "pulse", "pulse.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:         "http://127.0.0.1:8080",
			Channel:         "board-activity",
			FetchTimeoutSec: 15,
		},
		Feed: FeedConfig{
			PanelCap: 30,
			FeedCap:  100,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://127.0.0.1:8080")
	v.SetDefault("server.channel", "board-activity")
	v.SetDefault("server.fetch_timeout_sec", 15)
	v.SetDefault("feed.panel_cap", 30)
	v.SetDefault("feed.feed_cap", 100)
	v.SetDefault("display.theme", "default")

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

	if cfg.Feed.PanelCap <= 0 {
		cfg.Feed.PanelCap = 30
	}
	if cfg.Feed.FeedCap <= 0 {
		cfg.Feed.FeedCap = 100
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

	v.Set("identity", cfg.Identity)
	v.Set("server", cfg.Server)
	v.Set("feed", cfg.Feed)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
