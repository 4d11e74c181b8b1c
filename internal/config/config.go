package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keychord/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYCHORD_"

// Duration is a time.Duration written as a string ("750ms", "1s") in
// TOML files and environment variables.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds keychord settings.
type Config struct {
	// Timeout is how long an ambiguous chord waits for more keys.
	Timeout Duration `toml:"timeout" env:"TIMEOUT"`

	// KeymapPath is a JSON, YAML or TOML keymap layered over the defaults.
	KeymapPath string `toml:"keymap" env:"KEYMAP"`

	// ScriptPath is a Lua script that can add bindings and commands.
	ScriptPath string `toml:"script" env:"SCRIPT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	// LogFormat is text or json.
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`

	// LogFile receives log output. Empty discards logs, since the
	// terminal owns stdout and stderr.
	LogFile string `toml:"log_file" env:"LOG_FILE"`

	// Watch reloads the keymap and script when they change on disk.
	Watch bool `toml:"watch" env:"WATCH"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Timeout:   Duration(1000 * time.Millisecond),
		LogLevel:  "info",
		LogFormat: "text",
		Watch:     true,
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() string {
	return filepath.Join(defaultUserConfigDir(), "config.toml")
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keychord")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keychord")
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode parses TOML data into cfg, rejecting unknown keys.
func decode(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = serr.String()
			perr.Err = fmt.Errorf("%w: %w", ErrUnknownSetting, err)
		}
		return perr
	}
	return nil
}

// ApplyEnv overlays KEYCHORD_* environment variables on cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return &ValidationError{Field: "timeout", Message: "must be positive", Value: c.Timeout.Std()}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel}
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return &ValidationError{Field: "log_format", Message: "must be text or json", Value: c.LogFormat}
	}
	return nil
}

// Encode returns the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
