// Package config loads, normalizes, and validates brookesia configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BROOKESIA_ENGINE_COMMAND. The Config type centralizes every knob the CLI
// needs: where job files are written, where the draft store lives, and how
// the reduction engine is started.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
