// Package upload drives the one-way creation of catalog records: transform,
// create, capture the server id, then attach images. Each record succeeds or
// fails on its own and the run always completes with a Result.
package upload
