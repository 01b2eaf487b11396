// Package services defines shared utilities consumed by the populate pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, entity kinds, step names, and record
//     names for logging.
//   - Structured error markers plus the Wrap helper that let the pipeline tell
//     run-fatal failures (configuration, authentication) apart from failures
//     that only abort a step or a single record.
//
// Use these helpers when wiring new clients or steps so error classification
// and observability stay uniform across the tool.
package services
