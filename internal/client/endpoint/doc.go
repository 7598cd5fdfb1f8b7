// Package endpoint owns the backend base URL and the capability flag.
//
// At startup Store.Initialize loads a persisted override or falls back to a
// default picked by a Resolver from a rule table keyed by platform and
// environment. UpdateConfiguration validates, persists the four endpoint keys
// in one batch and only then switches the in-memory configuration.
//
// Capability starts unknown and changes only when a probe completes. Each
// probe is numbered; a probe that finishes after a newer one was issued
// returns its result to its caller but leaves the store untouched.
package endpoint
