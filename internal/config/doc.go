// Package config loads, normalizes, and validates Marquee configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MARQUEE_FEED_URL. The Config type centralizes every knob the CLI and the
// sync pipeline need: the feed endpoint, the store location, the display
// timezone, and the grace period applied before past events are dropped.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a resolved *time.Location, and clear validation errors.
package config
