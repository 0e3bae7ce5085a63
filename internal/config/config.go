package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/law-makers/quotes/internal/extract"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
	JSONLog  bool   `koanf:"json_log"`

	// HTTP
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"min=0"`
	UserAgent   string        `koanf:"user_agent"`

	// Site and pagination
	BaseURL   string            `koanf:"base_url" validate:"required,url"`
	MaxPages  int               `koanf:"max_pages" validate:"min=0"`
	Selectors extract.Selectors `koanf:"selectors"`

	// Request pacing (0 disables)
	RequestsPerSecond float64 `koanf:"rps" validate:"min=0"`
	RequestBurst      int     `koanf:"burst" validate:"min=1"`

	// Output
	OutputPath string   `koanf:"output" validate:"required"`
	Schema     []string `koanf:"schema" validate:"min=1,dive,oneof=text author tags"`
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := configPath(cmd); path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cmd != nil {
		if err := applyFlags(cmd, cfg); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// configPath returns the --config flag value, falling back to QUOTES_CONFIG
func configPath(cmd *cobra.Command) string {
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	return os.Getenv(EnvPrefix + "CONFIG")
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file does not exist")
		}
		return err
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

// applyFlags overrides cfg with flags the user set explicitly
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("user-agent"); f != nil && f.Changed {
		cfg.UserAgent = f.Value.String()
	}
	if f := flags.Lookup("base-url"); f != nil && f.Changed {
		cfg.BaseURL = f.Value.String()
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		d, err := flags.GetDuration("timeout")
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if f := flags.Lookup("max-pages"); f != nil && f.Changed {
		n, err := flags.GetInt("max-pages")
		if err != nil {
			return fmt.Errorf("max-pages: %w", err)
		}
		cfg.MaxPages = n
	}
	if f := flags.Lookup("rps"); f != nil && f.Changed {
		rps, err := flags.GetFloat64("rps")
		if err != nil {
			return fmt.Errorf("rps: %w", err)
		}
		cfg.RequestsPerSecond = rps
	}
	if f := flags.Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := flags.Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	if f := flags.Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	return nil
}
