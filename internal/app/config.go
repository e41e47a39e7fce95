package app

import (
	"errors"
	"fmt"

	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/modifier"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Expression  string   // resolved against the starting value
	TypeID      string   // type of Value; inferred when empty
	Value       string   // starting value text
	Preset      string   // named starting value from configuration
	Modifiers   []string // "name" or "name:arg", applied in order
	ConfigPaths []string // hcl files or directories
	Interactive bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Expression == "" && cfg.Preset == "" && !cfg.Interactive {
		return nil, errors.New("an expression, a preset or interactive mode is required")
	}
	if cfg.Preset != "" && (cfg.Value != "" || cfg.TypeID != "") {
		return nil, errors.New("a preset cannot be combined with an explicit value or type")
	}
	if _, err := cfg.ParsedModifiers(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParsedModifiers returns the modifier instructions as dispatch requests.
func (c *Config) ParsedModifiers() ([]dispatch.Modifier, error) {
	out := make([]dispatch.Modifier, 0, len(c.Modifiers))
	for _, text := range c.Modifiers {
		m, err := modifier.ParseInstruction(text)
		if err != nil {
			return nil, fmt.Errorf("invalid modifier instruction %q: %w", text, err)
		}
		out = append(out, m)
	}
	return out, nil
}
