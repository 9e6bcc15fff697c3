// Package notifications delivers push notifications about recording runs
// through Pushover. When no credentials are configured the service degrades
// to a noop so callers never need nil checks.
package notifications
