// Package main hosts the populate CLI entrypoint and command graph.
//
// One subcommand per entity kind runs a full populate pass: fetch from
// Nookipedia, upload to the content API, then enrich from the wiki and the
// local rank table. The command layer owns configuration resolution, the run
// lock, logger setup, summary rendering, and completion notifications so the
// internal packages stay free of terminal concerns.
package main
