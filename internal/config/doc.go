// Package config loads and validates the TOML configuration for the
// report pipeline. Configuration covers directories, report defaults,
// the video encoder, restriction-layer locations, and logging. Load
// falls back to built-in defaults when no file exists, so a fresh
// checkout works without any setup beyond a populated catalog database.
package config
