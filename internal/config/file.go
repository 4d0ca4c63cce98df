package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile decodes a YAML configuration file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	slog.Debug("Loaded config file", "path", path, "types", cfg.Types)
	return cfg, nil
}

// LoadDefaultFile loads DefaultConfigFile from dir. A missing file is not an
// error and yields a nil config.
func LoadDefaultFile(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}
	return LoadFile(path)
}
