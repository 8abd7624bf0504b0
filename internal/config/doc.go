// Package config loads, normalizes, and validates stai configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STAI_WHISPER_HOME. The Config type centralizes every knob the CLI needs,
// so the whisper.cpp layout, external tool binaries, and staging directories
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
