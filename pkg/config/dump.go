package config

import (
	"io"
	"strings"

	"github.com/arthur-debert/fixlinks/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dump writes cfg to w as "toml" or "yaml"
func Dump(cfg *Config, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case "", "toml":
		enc := toml.NewEncoder(w)
		if err := enc.Encode(cfg); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode config as toml")
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode config as yaml")
		}
		return enc.Close()
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown config format %q", format)
	}
}
