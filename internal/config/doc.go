// Package config supplies the rendering defaults, reads optional TOML
// config files and validates the merged settings.
//
// Command line flags are applied on top of a loaded Config by the CLI, so
// the precedence is flags > config file > defaults. Validate reports every
// problem as a configuration error from package errs.
package config
