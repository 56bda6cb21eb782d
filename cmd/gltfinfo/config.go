package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

var errInvalidWorkers = errors.New("workers must be positive")

// Config is the optional TOML configuration of gltfinfo. Flags override it.
type Config struct {
	// Workers is the number of concurrent fetches.
	Workers int `toml:"workers"`
	// HTTPTimeout bounds each HTTP request, as a Go duration string such as "30s".
	HTTPTimeout string `toml:"http_timeout"`
	// GPU uploads geometry to a headless WebGPU device instead of host memory.
	GPU bool `toml:"gpu"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		HTTPTimeout: "30s",
		LogLevel:    "info",
	}
}

// LoadConfig reads a TOML file over the defaults. A leading ~ in path is expanded.
// Unknown keys are rejected.
//
// Parameters:
//   - path: the config file location
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, decoded or validated
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	full, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expand %q: %w", path, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", full, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks every field can be used.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", errInvalidWorkers, c.Workers)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Timeout parses HTTPTimeout. An empty value means no timeout.
func (c Config) Timeout() (time.Duration, error) {
	if c.HTTPTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("http_timeout: %w", err)
	}
	return d, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
