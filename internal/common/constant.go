// Package common contains shared constants and sentinel errors used across
// study companion components.
package common

// RequestIDHeaderName is the HTTP header carrying the client-generated
// request id on outbound backend calls.
const RequestIDHeaderName = "X-Request-ID"

// UserAgent identifies the client to the backend.
const UserAgent = "studycompanion-cli"
