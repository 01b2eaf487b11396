// Package contentapi is the client for the Thibou content API.
//
// It authenticates with the system key, keeps the resulting one-hour bearer
// token fresh across long runs, and exposes the list, create, update, and
// image upload calls the populate pipeline needs. A failed request is never
// repeated; callers decide whether the failure is record-local or fatal.
package contentapi
