// Package config provides layered configuration for the dscodec CLI.
//
// Precedence (highest to lowest): explicitly set flags, DSCODEC_ environment
// variables, the config file (dscodec.yaml), defaults.
package config

import (
	"fmt"

	"github.com/roach88/dscodec/internal/logger"
)

// Defaults.
const (
	DefaultFormat   = "text"
	DefaultDBPath   = "dscodec.db"
	DefaultLogLevel = "info"
)

// Config holds all CLI configuration options.
type Config struct {
	// Namespace is applied to keys built from command line paths.
	Namespace string `koanf:"namespace"`
	// Format is the output format: json or text.
	Format   string `koanf:"format"`
	DBPath   string `koanf:"db_path"`
	LogLevel string `koanf:"log_level"`
	Verbose  bool   `koanf:"verbose"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q: must be 'json' or 'text'", c.Format)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// EffectiveLogLevel returns debug when verbose is set, the configured level
// otherwise.
func (c *Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}
