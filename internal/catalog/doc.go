// Package catalog defines the canonical data model shared by the transform,
// upload, and enrichment packages: entity kinds, localized name mappings,
// availability windows, and the record shapes accepted by the content API.
package catalog
