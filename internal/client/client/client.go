package client

import (
	"context"
	"io"
)

type Client interface {
	Status(ctx context.Context) (*ServerStatus, error)
	Root(ctx context.Context) (*RootInfo, error)
	ProcessText(ctx context.Context, text string) (*Summary, error)
	ProcessYouTube(ctx context.Context, videoURL string) (*Summary, error)
	ProcessVoice(ctx context.Context, audio []byte, previewOnly bool) (*VoiceResult, error)
	UploadPDF(ctx context.Context, filename string, r io.Reader) (*Summary, error)
	GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error)
	GenerateFlashcards(ctx context.Context, req FlashcardsRequest) (*FlashcardDeck, error)
}

// BaseURLSource yields the backend base URL, e.g. "http://localhost:8000".
type BaseURLSource interface {
	BaseURL() string
}

// StaticBaseURL is a fixed BaseURLSource.
type StaticBaseURL string

func (s StaticBaseURL) BaseURL() string { return string(s) }
