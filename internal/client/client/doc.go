// Package client talks to the study companion backend over HTTP.
//
// # Overview
//
// The Client interface mirrors the backend endpoints: capability probes
// (Status, Root), content processing (ProcessText, ProcessYouTube,
// ProcessVoice, UploadPDF) and study material generation (GenerateQuiz,
// GenerateFlashcards). HTTPClient implements it and reads the base URL from a
// BaseURLSource on every call, so endpoint changes take effect immediately.
//
// # Error Handling
//
// Transport failures match ErrUnavailable with errors.Is. A response that
// the backend marks as failed, either with a non-2xx status or an "error"
// field, is returned as *APIError.
package client
