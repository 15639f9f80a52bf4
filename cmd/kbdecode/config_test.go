package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/andresousadotpt/kbdecode"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))
	return dir
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
config_version: 1
keyboard:
  layout: de
  options: caps:escape
devices: [Logitech]
grab: true
log_format: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		ConfigVersion: 1,
		Keyboard:      kbdecode.Identity{Layout: "de", Options: "caps:escape"},
		Devices:       []string{"Logitech"},
		Grab:          true,
		LogLevel:      "info",
		LogFormat:     "json",
	}, cfg)
}

func TestLoadConfig_Unversioned(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "grab: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ConfigVersion)
}

func TestLoadConfig_ShorthandKeyboard(t *testing.T) {
	dir := writeConfig(t, `
layout: de
options: caps:escape
keyboard:
  layout: fr
  variant: ""
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, kbdecode.Identity{Layout: "fr", Options: "caps:escape"}, cfg.Keyboard)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "keyboard: [\n"},
		{"bad level", "log_level: loud\n"},
		{"bad format", "log_format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestEmbeddedDefaultsMatchDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.ConfigVersion = 0
	require.NoError(t, yaml.Unmarshal(defaultConfigFile, cfg))
	require.NoError(t, cfg.validate())

	assert.Empty(t, cfg.Devices)
	cfg.Devices = nil
	assert.Equal(t, defaultConfig(), cfg)
}

func TestInitConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kbdecode")
	require.NoError(t, initConfig(dir, zerolog.Nop()))

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigFile, data)

	// existing files are left alone
	custom := []byte("log_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), custom, 0644))
	require.NoError(t, initConfig(dir, zerolog.Nop()))
	data, err = os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestConfig_Identity(t *testing.T) {
	cfg := &Config{Keyboard: kbdecode.Identity{Variant: "nodeadkeys"}}
	system := kbdecode.Identity{Model: "pc105", Layout: "de"}

	assert.Equal(t, kbdecode.Identity{Model: "pc105", Layout: "de", Variant: "nodeadkeys"}, cfg.Identity(system))
}

func TestConfig_MatchDevice(t *testing.T) {
	tests := []struct {
		devices []string
		name    string
		want    bool
	}{
		{nil, "AT Translated Set 2 keyboard", true},
		{[]string{"logitech"}, "Logitech USB Keyboard", true},
		{[]string{"logitech"}, "AT Translated Set 2 keyboard", false},
		{[]string{"nope", "Set 2"}, "AT Translated Set 2 keyboard", true},
	}
	for _, tt := range tests {
		cfg := &Config{Devices: tt.devices}
		assert.Equal(t, tt.want, cfg.MatchDevice(tt.name), "%v / %s", tt.devices, tt.name)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/kbdecode", configDir())
}
