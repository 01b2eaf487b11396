// Package logging assembles structured slog loggers and formatting helpers used
// across the populate tool.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the run ID, entity kind, step, and record name. The package also
// provides a no-op logger for tests and a progress sampler that keeps long
// sequential loops from flooding the console.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
