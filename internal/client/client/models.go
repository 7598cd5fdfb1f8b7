package client

import "unicode/utf8"

// Sources reported by the backend in Summary.Source.
const (
	SourceText         = "text"
	SourcePDF          = "pdf"
	SourceYouTube      = "youtube"
	SourceVoice        = "voice_note"
	SourceVoicePreview = "voice_note_preview"
)

// ServerStatus is the payload of GET /api/status.
type ServerStatus struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	AIPowered     bool     `json:"ai_powered"`
	Hostname      string   `json:"hostname,omitempty"`
	IPAddresses   []string `json:"ip_addresses,omitempty"`
	Platform      string   `json:"platform,omitempty"`
	PythonVersion string   `json:"python_version,omitempty"`
	Port          int      `json:"flask_port,omitempty"`
	CORSEnabled   bool     `json:"cors_enabled,omitempty"`
}

// RootInfo is the payload of GET /. AIPowered is nil when the backend does
// not report it.
type RootInfo struct {
	Message   string        `json:"message"`
	Version   string        `json:"version"`
	AIPowered *bool         `json:"ai_powered,omitempty"`
	Endpoints []EndpointDoc `json:"endpoints,omitempty"`
}

type EndpointDoc struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Summary is the analysis returned by every processing endpoint.
type Summary struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	KeyConcepts    []string `json:"key_concepts"`
	WordCount      int      `json:"word_count"`
	SentenceCount  int      `json:"sentence_count"`
	FullText       string   `json:"full_text,omitempty"`
	TextPreview    string   `json:"text_preview,omitempty"`
	Source         string   `json:"source,omitempty"`
	VideoID        string   `json:"video_id,omitempty"`
	TranscriptSize int      `json:"transcript_size,omitempty"`
}

// VoiceResult is a Summary plus the transcoding diagnostics of
// /api/process-voice. Preview responses carry only FullText.
type VoiceResult struct {
	Summary
	ConversionSuccessful bool   `json:"conversion_successful"`
	FFmpegMissing        bool   `json:"ffmpeg_missing,omitempty"`
	FFmpegMessage        string `json:"ffmpeg_message,omitempty"`
}

const generationPreviewRunes = 500

// GenerationText picks the text sent to quiz and flashcard generation.
// YouTube summaries carry no full text, so their preview is cut to 500
// characters and marked as truncated.
func GenerationText(s *Summary) string {
	if s == nil {
		return ""
	}
	if s.Source != SourceYouTube {
		return s.FullText
	}

	preview := s.TextPreview
	if utf8.RuneCountInString(preview) > generationPreviewRunes {
		preview = string([]rune(preview)[:generationPreviewRunes])
	}
	return preview + "..."
}

// Flashcard is one card of a generated deck.
type Flashcard struct {
	Front           string   `json:"front"`
	Back            string   `json:"back"`
	KeyTerm         string   `json:"key_term,omitempty"`
	Context         string   `json:"context,omitempty"`
	Example         string   `json:"example,omitempty"`
	RelatedConcepts []string `json:"related_concepts,omitempty"`
}

type FlashcardDeck struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// FlashcardsRequest is the body of /api/generate-flashcards.
type FlashcardsRequest struct {
	Text     string `json:"text"`
	NumCards int    `json:"num_cards"`
	Source   string `json:"source"`
}
