// Package config loads the demo bot configuration: a strict YAML file
// with environment-variable overrides for the secrets.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	yaml "go.yaml.in/yaml/v3"
)

// Config is the demo bot configuration.
type Config struct {
	// Token is the bot token; keep it in the environment, not the file.
	Token    string `yaml:"token" env:"BOT_TOKEN"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	PollTimeout Duration `yaml:"poll_timeout"`

	Locales LocalesConfig `yaml:"locales"`
	Typing  TypingConfig  `yaml:"typing"`
}

// LocalesConfig configures the i18n layer.
type LocalesConfig struct {
	Path    string `yaml:"path" env:"LOCALES_PATH"`
	Default string `yaml:"default"`
	Domain  string `yaml:"domain"`
	Watch   bool   `yaml:"watch"`
}

// TypingConfig configures the typing-indicator sender.
type TypingConfig struct {
	Interval     Duration `yaml:"interval"`
	InitialSleep Duration `yaml:"initial_sleep"`
}

// Defaults returns a config with sane defaults for everything but Token.
func Defaults() *Config {
	return &Config{
		LogLevel:    "info",
		PollTimeout: Duration(10 * time.Second),
		Locales: LocalesConfig{
			Path:    "./locales",
			Default: "en",
			Domain:  "bot",
		},
		Typing: TypingConfig{
			Interval: Duration(5 * time.Second),
		},
	}
}

// Load reads the YAML file at path (optional, unknown keys rejected) and
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("config: bot token is required (set BOT_TOKEN)")
	}
	if cfg.Locales.Path == "" {
		return nil, fmt.Errorf("config: locales.path is required")
	}
	return cfg, nil
}

// Duration is a time.Duration that unmarshals from strings like "5s" in
// both YAML and environment values.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler (used by env.Parse).
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if v < 0 {
		return fmt.Errorf("duration must be >= 0, got %q", string(text))
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML accepts either a duration string or a bare number of
// seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid duration node: %w", err)
	}
	if v, err := time.ParseDuration(raw); err == nil {
		if v < 0 {
			return fmt.Errorf("duration must be >= 0, got %q", raw)
		}
		*d = Duration(v)
		return nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs >= 0 {
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration %q", raw)
}
