package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "BATON_"
	EnvConfig = "BATON_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if BATON_CONFIG is set
//  3. env (prefix BATON_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BATON_DATASET_PATH -> dataset_path; underscores are kept to match
	// the flat koanf tags. BATON_CONFIG itself maps to "config" which no
	// field carries.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values and normalizes enumerations to lower case.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	c.Layout = strings.ToLower(strings.TrimSpace(c.Layout))
	switch c.Layout {
	case "desktop", "compact":
	default:
		return fmt.Errorf("%w: layout %q", ErrInvalidConfig, c.Layout)
	}
	if c.MaxLimit < 1 {
		return fmt.Errorf("%w: max_limit must be positive", ErrInvalidConfig)
	}
	if c.HighlightLimit < 1 || c.HighlightLimit > c.MaxLimit {
		return fmt.Errorf("%w: highlight_limit must be in [1, max_limit]", ErrInvalidConfig)
	}
	if c.TopShowsLimit < 1 {
		return fmt.Errorf("%w: top_shows_limit must be positive", ErrInvalidConfig)
	}
	if c.WatchDataset && c.DatasetPath == "" {
		return fmt.Errorf("%w: watch_dataset needs dataset_path", ErrInvalidConfig)
	}
	return nil
}
