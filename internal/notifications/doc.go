// Package notifications delivers run outcomes via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// the config file and degrades to a no-op when notifications are disabled.
// Callers treat notification errors as warnings; a failed push never fails a
// populate run.
package notifications
