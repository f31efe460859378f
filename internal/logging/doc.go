// Package logging builds the slog loggers used across Marquee.
//
// Two output formats are supported: a terse console format for interactive
// use and JSON for scheduled runs whose output lands in a log directory.
// Attr helpers re-exported here keep call sites free of direct slog imports.
package logging
