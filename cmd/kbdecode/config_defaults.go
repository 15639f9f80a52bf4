package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

//go:embed defaults/config.yml
var defaultConfigFile []byte

// initConfig creates the config directory and writes the embedded default
// config.yml unless one already exists.
func initConfig(dir string, log zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	dst := filepath.Join(dir, configFileName)
	if _, err := os.Stat(dst); err == nil {
		log.Info().Str("path", dst).Msg("skip, already exists")
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dst, err)
	}

	if err := os.WriteFile(dst, defaultConfigFile, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	log.Info().Str("path", dst).Msg("created")
	return nil
}
