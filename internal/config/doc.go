// Package config loads, normalizes, and validates assetnamer configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY. The Config type centralizes every knob the CLI and the batch
// pipeline need: naming patterns, supported media formats, vision API settings,
// and output shaping rules.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical defaults, and clear validation errors.
package config
