// Package config loads tapdeck's runtime configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file, then
// TAPDECK_* environment variables. Command-line flags are applied by the CLI
// on top of the result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

const (
	envPrefix = "TAPDECK"

	defaultLogPath     = "~/.tapdeck/logs/tapdeck.log"
	defaultLogLevel    = "info"
	defaultCounterKind = string(eventbus.KindClick)
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config captures the settings shared by the TUI and the headless commands.
type Config struct {
	// LogPath is the rotated log file. "-" writes to stderr.
	LogPath string `yaml:"log_path" split_words:"true"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" split_words:"true"`

	// CounterKind selects the event kind shown by the counter line.
	CounterKind string `yaml:"counter_kind" split_words:"true"`

	// AltScreen runs the TUI in the terminal's alternate screen buffer.
	AltScreen bool `yaml:"alt_screen" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogPath:     defaultLogPath,
		LogLevel:    defaultLogLevel,
		CounterKind: defaultCounterKind,
		AltScreen:   true,
	}
}

// Load resolves the configuration. path may be empty, in which case no file
// is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(expandPath(path))
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	// Keys are built from the prefix and the field name only (TAPDECK_LOG_LEVEL).
	// Fields carry no default tags, so unset variables leave earlier values alone.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.LogPath = expandPath(cfg.LogPath)
	return cfg, nil
}

// Validate checks the fields that have a closed set of values.
func (c Config) Validate() error {
	if _, err := eventbus.ParseKind(c.CounterKind); err != nil {
		return fmt.Errorf("%w: counter_kind: %w", ErrInvalid, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return fmt.Errorf("%w: log_path required", ErrInvalid)
	}
	return nil
}

// Kind returns CounterKind parsed. Call Validate first.
func (c Config) Kind() eventbus.Kind {
	k, err := eventbus.ParseKind(c.CounterKind)
	if err != nil {
		return eventbus.KindClick
	}
	return k
}

// SlogLevel converts LogLevel to a slog.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}
