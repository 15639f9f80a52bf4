package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresousadotpt/kbdecode"
)

const shorthandConfig = `# my keyboard
layout: de # german
variant: nodeadkeys
grab: true
log_level: debug
`

func TestMigrateConfig_NestsKeyboardFields(t *testing.T) {
	dir := writeConfig(t, shorthandConfig)

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, latestConfigVersion, cfg.ConfigVersion)
	assert.Equal(t, kbdecode.Identity{Layout: "de", Variant: "nodeadkeys"}, cfg.Keyboard)
	assert.True(t, cfg.Grab)
	assert.Equal(t, "debug", cfg.LogLevel)

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# my keyboard")
	assert.Contains(t, string(data), "# german")

	bak, err := os.ReadFile(filepath.Join(dir, configFileName+".bak"))
	require.NoError(t, err)
	assert.Equal(t, shorthandConfig, string(bak))
}

func TestMigrateConfig_ExistingKeyboardSectionWins(t *testing.T) {
	dir := writeConfig(t, "layout: de\nkeyboard:\n  layout: fr\n")

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, kbdecode.Identity{Layout: "fr"}, cfg.Keyboard)
}

func TestMigrateConfig_EmptyKeyboardKey(t *testing.T) {
	dir := writeConfig(t, "keyboard:\noptions: caps:escape\n")

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, kbdecode.Identity{Options: "caps:escape"}, cfg.Keyboard)
}

func TestMigrateConfig_NothingToMove(t *testing.T) {
	dir := writeConfig(t, "grab: true\n")

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, latestConfigVersion, cfg.ConfigVersion)
	assert.NoFileExists(t, filepath.Join(dir, configFileName+".bak"))
}

func TestMigrateConfig_UpToDate(t *testing.T) {
	content := "config_version: 1\nlayout: de\n"
	dir := writeConfig(t, content)

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestMigrateConfig_NoFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, migrateConfig(dir, zerolog.Nop()))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, latestConfigVersion, cfg.ConfigVersion)
}

func TestMigrateConfig_NotAMapping(t *testing.T) {
	dir := writeConfig(t, "- layout\n- de\n")
	assert.Error(t, migrateConfig(dir, zerolog.Nop()))
}

func TestSetConfigVersion_Replaces(t *testing.T) {
	dir := writeConfig(t, "config_version: 0 # old\ngrab: false\n")
	path := filepath.Join(dir, configFileName)

	require.NoError(t, setConfigVersion(path, 3))

	v, err := readConfigVersion(path)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
