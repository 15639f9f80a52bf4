package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/andresousadotpt/kbdecode"
)

const configFileName = "config.yml"

// Config is the daemon configuration read from config.yml.
type Config struct {
	ConfigVersion int               `yaml:"config_version"`
	Keyboard      kbdecode.Identity `yaml:"keyboard"`
	Devices       []string          `yaml:"devices"`
	Grab          bool              `yaml:"grab"`
	LogLevel      string            `yaml:"log_level"`
	LogFormat     string            `yaml:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		ConfigVersion: latestConfigVersion,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "kbdecode")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kbdecode")
}

// LoadConfig reads dir/config.yml. A missing file yields the defaults.
//
// The identity keys may also be written at the top level as a shorthand
// (layout: de). Keys under keyboard win over the shorthand.
func LoadConfig(dir string) (*Config, error) {
	cfg := defaultConfig()

	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// an absent config_version marks an unversioned file
	cfg.ConfigVersion = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var flat kbdecode.Identity
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Keyboard = flat.Merge(cfg.Keyboard)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Identity merges the keyboard section over the system identity.
func (c *Config) Identity(system kbdecode.Identity) kbdecode.Identity {
	return system.Merge(c.Keyboard)
}

// MatchDevice reports whether a device name passes the devices filter. An
// empty filter matches every device.
func (c *Config) MatchDevice(name string) bool {
	if len(c.Devices) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, d := range c.Devices {
		if strings.Contains(name, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
