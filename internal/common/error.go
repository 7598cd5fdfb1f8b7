// Package common defines shared constants and sentinel errors used across
// the study companion client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Input errors.
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")
)

// StorageError reports a failed read or write of a persisted key.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
