// Package config loads and validates the mediaprobe configuration file.
//
// Configuration is TOML with one section per subsystem. Every path field is
// expanded and normalized at load time, so the rest of the program never
// deals with "~" or relative paths. Load falls back to built-in defaults
// when no file exists.
package config
