// Package config provides configuration loading and validation for scrobblefix.
package config

import (
	"time"

	"github.com/ccollicutt/scrobblefix/pkg/corrector"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Cutoff is the RFC 3339 instant before which timestamps are corrupted.
	Cutoff string `yaml:"cutoff"`

	// OffsetDays is the number of whole days added to corrupted timestamps.
	OffsetDays int `yaml:"offset_days"`

	// Timezone is the zone timestamps are read in and whose calendar the
	// day shift follows: "Local", "UTC" or an IANA name.
	Timezone string `yaml:"timezone"`

	// Client overrides the #CLIENT header line of repaired logs.
	// Empty keeps the client of the input log.
	Client string `yaml:"client,omitempty"`

	// OnError is "fail" to abort at the first bad line or "skip" to drop it.
	OnError string `yaml:"on_error"`

	// Workers bounds concurrent record processing (0 means GOMAXPROCS).
	Workers int `yaml:"workers,omitempty"`

	// Populated during validation
	cutoff   time.Time
	location *time.Location
}

// CutoffTime returns the parsed cutoff.
func (c *Config) CutoffTime() time.Time {
	return c.cutoff
}

// Location returns the loaded reference time zone.
func (c *Config) Location() *time.Location {
	return c.location
}

// Policy returns the correction policy described by the configuration.
func (c *Config) Policy() corrector.Policy {
	return corrector.Policy{
		Cutoff:     c.cutoff,
		OffsetDays: c.OffsetDays,
		Location:   c.location,
	}
}
