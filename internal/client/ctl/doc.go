// Package ctl implements studyctl, the non-interactive Study Companion
// client. Each invocation opens the configured storage, runs one command
// against the session and endpoint stores and exits.
package ctl
