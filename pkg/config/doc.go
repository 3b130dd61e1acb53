// Package config handles configuration management for fixlinks.
// It layers embedded defaults, an optional TOML or YAML user file,
// FIXLINKS_* environment variables and command-line flags, in that order.
package config
