// Package transform turns raw Nookipedia records into the canonical catalog
// records uploaded to the content API.
//
// Everything here is pure: location, weather, and rarity normalization,
// free-text time range parsing, and per-kind record assembly. Bugs and fish
// resolve unparseable time text differently; see Policy.
package transform
