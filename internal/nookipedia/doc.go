// Package nookipedia fetches the raw villager, fish, bug, and fossil listings
// that seed a populate run.
//
// Raw types mirror the upstream JSON closely and tolerate missing fields and
// integers sent as strings; normalization into the catalog model happens in
// the transform package.
package nookipedia
