// Package config handles configuration loading for the analyzer.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/geotext/internal/geo"
	"github.com/woozymasta/geotext/internal/textctx"

	"gopkg.in/yaml.v3"
)

// Record orderings.
const (
	OrderLexical  = "lexical"  // by matched text
	OrderPosition = "position" // by offset in the source text
)

// Config represents the root configuration file structure.
type Config struct {
	// Per-format priority overrides, keyed by format name.
	Priorities       map[geo.Format]int `yaml:"priorities,omitempty"`
	Order            string             `yaml:"order,omitempty"`
	Keywords         []string           `yaml:"keywords,omitempty"`
	ClosureTolerance float64            `yaml:"closure_tolerance,omitempty"`

	// Resume a pattern right after the start of a rejected candidate.
	RescanRejected bool `yaml:"rescan_rejected,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Order:            OrderLexical,
		Keywords:         append([]string(nil), textctx.DefaultKeywords...),
		ClosureTolerance: geo.DefaultClosureTolerance,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Fields left out of the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks field values and fills zero values with defaults.
func (c *Config) Validate() error {
	switch c.Order {
	case "":
		c.Order = OrderLexical
	case OrderLexical, OrderPosition:
	default:
		return fmt.Errorf("order must be %q or %q, got %q", OrderLexical, OrderPosition, c.Order)
	}

	if c.ClosureTolerance < 0 {
		return fmt.Errorf("closure_tolerance must not be negative, got %g", c.ClosureTolerance)
	}
	if c.ClosureTolerance == 0 {
		c.ClosureTolerance = geo.DefaultClosureTolerance
	}

	if _, ok := c.Priorities[geo.Unknown]; ok {
		return errors.New("priorities: Unknown is not a pattern")
	}

	return nil
}
