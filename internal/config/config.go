// Package config reads the optional startup configuration file from
// the user's XDG config directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/interpretive-systems/stagium/internal/gitx"
	"github.com/interpretive-systems/stagium/internal/theme"
)

const relPath = "stagium/config.yaml"

// Config holds the optional startup settings. Nil fields were absent
// from the file, so flag and pref precedence can tell them apart from
// explicit values.
type Config struct {
	Tool  *string `yaml:"tool"`
	Theme *string `yaml:"theme"`
}

// Load reads the config file from the XDG config home. A missing file
// is fine; unknown keys and invalid values are startup errors.
func Load() (Config, error) {
	return read(filepath.Join(xdg.ConfigHome, relPath))
}

func read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := validate(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(path string, cfg Config) error {
	if cfg.Tool != nil {
		if _, err := gitx.ParseTool(*cfg.Tool); err != nil {
			return fmt.Errorf("invalid config value for key %q in %q: %w", "tool", path, err)
		}
	}
	if cfg.Theme != nil {
		if _, err := theme.ParseName(*cfg.Theme); err != nil {
			return fmt.Errorf("invalid config value for key %q in %q: %w", "theme", path, err)
		}
	}
	return nil
}
