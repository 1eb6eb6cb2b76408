// Package config provides application settings for the vpnetscape
// client. Settings are persisted to a YAML file in the user's config
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vpnetscape/client/common"
	"gopkg.in/yaml.v3"
)

// Config represents the application settings.
type Config struct {
	// DisableTrayIcon hides the system tray icon.
	DisableTrayIcon bool `yaml:"disable_tray_icon"`
	// ShowNotifications enables desktop notifications for connection
	// events.
	ShowNotifications bool `yaml:"show_notifications"`
	// AutoReconnect automatically reconnects when a connection drops.
	AutoReconnect bool `yaml:"auto_reconnect"`
	// Theme sets the color theme: "light", "dark", or "auto".
	Theme string `yaml:"theme"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		DisableTrayIcon:   false,
		ShowNotifications: true,
		AutoReconnect:     true,
		Theme:             "auto",
	}
}

// Load reads the settings file, creating it with defaults when absent.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: error opening settings: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var config Config
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("config: error parsing settings: %w", err)
	}

	config.validate()

	return &config, nil
}

// validate normalizes invalid values back to their defaults.
func (c *Config) validate() {
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		c.Theme = "auto"
	}
}

// Save writes the settings to the settings file.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("config: error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: error serializing settings: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("config: error saving settings: %w", err)
	}

	return nil
}

func getConfigPath() (string, error) {
	configDir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, common.ConfigFileName), nil
}
