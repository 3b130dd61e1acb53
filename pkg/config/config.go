package config

import (
	"strings"

	"github.com/arthur-debert/fixlinks/pkg/errors"
)

// Failure policies accepted by fixer.on_error
const (
	OnErrorContinue = "continue"
	OnErrorStop     = "stop"
)

var validFormats = []string{"", "auto", "term", "terminal", "text", "plain", "json"}

// Config is the effective fixlinks configuration
type Config struct {
	Fixer   Fixer   `koanf:"fixer" toml:"fixer" yaml:"fixer"`
	Output  Output  `koanf:"output" toml:"output" yaml:"output"`
	Logging Logging `koanf:"logging" toml:"logging" yaml:"logging"`
}

// Fixer holds the walk and failure policy settings
type Fixer struct {
	OnError       string `koanf:"on_error" toml:"on_error" yaml:"on_error"`
	FailOnError   bool   `koanf:"fail_on_error" toml:"fail_on_error" yaml:"fail_on_error"`
	MaxPathLength int    `koanf:"max_path_length" toml:"max_path_length" yaml:"max_path_length"`
	DryRun        bool   `koanf:"dry_run" toml:"dry_run" yaml:"dry_run"`
}

// Output selects the renderer
type Output struct {
	Format string `koanf:"format" toml:"format" yaml:"format"`
}

// Logging controls the zerolog setup
type Logging struct {
	Verbosity int  `koanf:"verbosity" toml:"verbosity" yaml:"verbosity"`
	File      bool `koanf:"file" toml:"file" yaml:"file"`
}

// Validate checks values that koanf cannot type-check
func (c *Config) Validate() error {
	switch strings.ToLower(c.Fixer.OnError) {
	case OnErrorContinue, OnErrorStop:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"fixer.on_error must be %q or %q, got %q", OnErrorContinue, OnErrorStop, c.Fixer.OnError).
			WithDetail("key", "fixer.on_error")
	}

	if c.Fixer.MaxPathLength <= 0 {
		return errors.Newf(errors.ErrConfigValid,
			"fixer.max_path_length must be positive, got %d", c.Fixer.MaxPathLength).
			WithDetail("key", "fixer.max_path_length")
	}

	format := strings.ToLower(c.Output.Format)
	for _, f := range validFormats {
		if f == format {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "unknown output format %q", c.Output.Format).
		WithDetail("key", "output.format")
}
