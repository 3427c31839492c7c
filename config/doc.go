// Package config loads bookdigest settings from an optional YAML file and
// the environment.
//
// Defaults are applied first, then the file named by BOOKDIGEST_CONFIG (or
// an explicit path), then environment overrides. A file that cannot be read
// or parsed is logged and ignored. Command-line flags are applied by the
// caller on top of the loaded Config.
package config
