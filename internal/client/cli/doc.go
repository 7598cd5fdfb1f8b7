// Package cli provides the interactive Study Companion client.
//
// It wires the session store, the endpoint store and the backend client into
// a REPL. Typical flow: restore the saved session, start a background
// capability watcher, and execute user commands until exit.
//
// Key features:
//   - Register / Login / Logout with an optional "remember me"
//   - Endpoint settings (custom host and port, reset to default)
//   - Text, YouTube, PDF and voice note processing
//   - Quizzes and flashcards generated from the last summary
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartCapabilityWatcher, and runREPL for details.
package cli
