// Package session is the single source of truth for who is logged in.
//
// A Store keeps at most one current Identity. Logging in with "remember"
// writes the identity to the durable metadata repository; otherwise it lives
// in a TransientTier owned by the process and is lost on restart. Exactly one
// tier holds the identity at a time.
//
// Registered accounts are kept in a Registry as salted argon2id verifiers;
// the plaintext password is never persisted.
package session
