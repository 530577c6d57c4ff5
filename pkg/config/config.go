package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/scrobblefix/pkg/corrector"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
)

// Load reads and validates a configuration file from fs.
func Load(_ context.Context, fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadDefault returns the default configuration with environment overrides
// applied, for runs without a config file.
func LoadDefault(_ context.Context) (*Config, error) {
	return finish(DefaultConfig())
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from .env files that exist.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// Validate checks a configuration for errors and resolves the cutoff and
// time zone.
func Validate(cfg *Config) error {
	if cfg.Cutoff == "" {
		return errors.New("cutoff: a cutoff instant is required")
	}
	cutoff, err := corrector.ParseCutoff(cfg.Cutoff)
	if err != nil {
		return fmt.Errorf("cutoff: %w", err)
	}
	cfg.cutoff = cutoff

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	cfg.location = loc

	if err := cfg.Policy().Validate(); err != nil {
		return err
	}

	if cfg.OnError == "" {
		cfg.OnError = DefaultOnError
	}
	if _, err := repair.ParseErrorMode(cfg.OnError); err != nil {
		return fmt.Errorf("on_error: %w", err)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("workers: must be >= 0, got %d", cfg.Workers)
	}

	if strings.ContainsAny(cfg.Client, "\r\n") {
		return errors.New("client: must be a single line")
	}

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	switch name {
	case "", DefaultTimezone:
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
