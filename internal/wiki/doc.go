// Package wiki scrapes Nookipedia pages for data the API does not expose:
// localized names of fish, bugs, and villagers, and villager house artwork.
//
// Requests are paced by a token-bucket limiter and parsed with goquery.
// Listing and table-level failures are returned as structure errors; a broken
// detail page only costs that one entry.
package wiki
