package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the apiprobe configuration file.
type Config struct {
	DefaultEnvironment string                       `json:"defaultEnvironment,omitempty"`
	Timeout            int                          `json:"timeout,omitempty"` // milliseconds
	FollowRedirects    *bool                        `json:"followRedirects,omitempty"`
	MaxRedirects       int                          `json:"maxRedirects,omitempty"`
	ValidateSSL        *bool                        `json:"validateSSL,omitempty"`
	Proxy              string                       `json:"proxy,omitempty"`
	Headers            map[string]string            `json:"headers,omitempty"` // Default headers for all requests
	HistoryDB          string                       `json:"historyDB,omitempty"`
	Simulate           *bool                        `json:"simulate,omitempty"` // Use the simulated transport
	NoColor            *bool                        `json:"noColor,omitempty"`
	Environments       map[string]map[string]string `json:"environments,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetSimulate returns the simulate setting, defaulting to false
func (c *Config) GetSimulate() bool {
	return getBool(c.Simulate, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".apiprobe.config.json",
	"apiprobe.config.json",
	".apiproberc",
	".apiproberc.json",
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
// A missing config is not an error; it yields the zero config.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return &Config{}, nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &cfg, nil
}
