package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ccollicutt/scrobblefix/pkg/corrector"
)

// Default values for configuration.
const (
	DefaultTimezone = "Local"
	DefaultOnError  = "fail"
)

// Environment variable names.
const (
	EnvCutoff     = "SCROBBLEFIX_CUTOFF"
	EnvOffsetDays = "SCROBBLEFIX_OFFSET_DAYS"
	EnvTimezone   = "SCROBBLEFIX_TIMEZONE"
	EnvClient     = "SCROBBLEFIX_CLIENT"
)

// DefaultConfig returns a configuration with the calibrated defaults.
func DefaultConfig() *Config {
	return &Config{
		Cutoff:     corrector.DefaultCutoff,
		OffsetDays: corrector.DefaultOffsetDays,
		Timezone:   DefaultTimezone,
		OnError:    DefaultOnError,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvCutoff); v != "" {
		c.Cutoff = v
	}
	if v := os.Getenv(EnvOffsetDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			log.Warn().Str("value", v).Msgf("ignoring %s: not an integer", EnvOffsetDays)
		} else {
			c.OffsetDays = days
		}
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvClient); v != "" {
		c.Client = v
	}
}
