// Package enrich runs the scrape, match, and merge passes that complete
// records after upload.
//
// Every pass has the same shape, captured by Step and Run: list the live
// records, scrape the secondary source for the names that matter, match
// scraped entries to records by normalized name, and write back only what
// changed. Concrete passes cover localized names, villager houses, and
// popularity ranks.
package enrich
