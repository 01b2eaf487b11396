// Package config loads, normalizes, and validates populate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies environment overrides such as
// SYSTEM_KEY and NOOKIPEDIA_API_KEY. The Config type centralizes every knob the
// CLI needs, so API endpoints, credentials, scraper pacing, and local file
// locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config
