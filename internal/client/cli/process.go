package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/filex"
)

const (
	maxPDFBytes   = 16 << 20
	maxVoiceBytes = 25 << 20
)

var (
	getMultiline = GetMultiline
	readFile     = filex.ReadFileLimit
)

var (
	// errNotLoggedIn is returned by feature commands used before login.
	errNotLoggedIn = errors.New("not logged in")
	errEmptyInput  = errors.New("empty input")
)

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return errNotLoggedIn
	}
	return nil
}

func (a *App) reportAPIError(what string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "%s failed: %s\n", what, apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s failed: backend unreachable at %s\n", what, a.endpoint.BaseURL())
		a.setMode(ModeOffline)
	default:
		fmt.Fprintf(a.out, "%s failed: %v\n", what, err)
	}
}

// ProcessText summarizes pasted text.
func (a *App) ProcessText(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	text, err := getMultiline(a.reader, "Paste the text to summarize", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(a.out, "Nothing to process")
		return errEmptyInput
	}

	s, err := a.api.ProcessText(ctx, text)
	if err != nil {
		a.reportAPIError("Text processing", err)
		return err
	}
	a.showSummary(s)
	return nil
}

// ProcessYouTube summarizes the transcript of a video.
func (a *App) ProcessYouTube(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	u, err := getSimpleText(a.reader, "YouTube URL", a.out)
	if err != nil {
		return err
	}
	if u == "" {
		fmt.Fprintln(a.out, "Nothing to process")
		return errEmptyInput
	}

	s, err := a.api.ProcessYouTube(ctx, u)
	if err != nil {
		a.reportAPIError("YouTube processing", err)
		return err
	}
	a.showSummary(s)
	return nil
}

// ProcessPDF uploads a PDF from disk.
func (a *App) ProcessPDF(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Path to PDF file", a.out)
	if err != nil {
		return err
	}

	data, err := readFile(path, maxPDFBytes)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot read file:", err)
		return err
	}

	s, err := a.api.UploadPDF(ctx, filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		a.reportAPIError("PDF processing", err)
		return err
	}
	a.showSummary(s)
	return nil
}

// ProcessVoice sends a recorded audio file. In preview mode only the
// transcript is shown.
func (a *App) ProcessVoice(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Path to audio file", a.out)
	if err != nil {
		return err
	}
	preview, err := getYesNo(a.reader, "Transcript preview only?", a.out)
	if err != nil {
		return err
	}

	audio, err := readFile(path, maxVoiceBytes)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot read file:", err)
		return err
	}

	res, err := a.api.ProcessVoice(ctx, audio, preview)
	if err != nil {
		a.reportAPIError("Voice processing", err)
		return err
	}

	if res.FFmpegMissing {
		fmt.Fprintln(a.out, "Warning:", res.FFmpegMessage)
	}
	if preview {
		fmt.Fprintln(a.out, "Transcript:")
		fmt.Fprintln(a.out, res.FullText)
		return nil
	}
	a.showSummary(&res.Summary)
	return nil
}

// showSummary prints s and keeps it for quiz and flashcard generation.
func (a *App) showSummary(s *client.Summary) {
	a.setSummary(s)
	fmt.Fprint(a.out, formatSummary(s))
}

func formatSummary(s *client.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary (%s):\n%s\n", sourceLabel(s.Source), s.Summary)
	if len(s.KeyPoints) > 0 {
		b.WriteString("\nKey points:\n")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	if len(s.KeyConcepts) > 0 {
		fmt.Fprintf(&b, "\nKey concepts: %s\n", strings.Join(s.KeyConcepts, ", "))
	}
	fmt.Fprintf(&b, "\nWords: %d, sentences: %d\n", s.WordCount, s.SentenceCount)
	return b.String()
}

func sourceLabel(src string) string {
	switch src {
	case client.SourcePDF:
		return "PDF"
	case client.SourceYouTube:
		return "YouTube"
	case client.SourceVoice, client.SourceVoicePreview:
		return "voice note"
	case "":
		return "text"
	default:
		return src
	}
}
