package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/dmitrijs2005/studycompanion/internal/netx"
	"github.com/google/uuid"
)

const (
	pathStatus             = "/api/status"
	pathRoot               = "/"
	pathProcessText        = "/api/process-text"
	pathProcessYouTube     = "/api/process-youtube"
	pathProcessVoice       = "/api/process-voice"
	pathUploadPDF          = "/api/upload-pdf"
	pathGenerateQuiz       = "/api/generate-quiz"
	pathGenerateFlashcards = "/api/generate-flashcards"

	pdfField = "file"
)

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	base BaseURLSource
	doer netx.Doer
}

// NewHTTPClient returns a client whose requests time out after timeout
// (zero means no timeout).
func NewHTTPClient(base BaseURLSource, timeout time.Duration) *HTTPClient {
	return NewHTTPClientWithDoer(base, &http.Client{Timeout: timeout})
}

func NewHTTPClientWithDoer(base BaseURLSource, doer netx.Doer) *HTTPClient {
	return &HTTPClient{base: base, doer: doer}
}

func (c *HTTPClient) url(path string) string {
	return strings.TrimRight(c.base.BaseURL(), "/") + path
}

func (c *HTTPClient) header() http.Header {
	h := http.Header{}
	h.Set(common.RequestIDHeaderName, uuid.NewString())
	h.Set("User-Agent", common.UserAgent)
	return h
}

// errorBody is the failure shape of the backend; some handlers also return
// it with status 200.
type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		var body errorBody
		_ = json.Unmarshal(se.Body, &body)
		return &APIError{StatusCode: se.StatusCode, Message: body.Error}
	}

	if errors.Is(err, netx.ErrDecode) || errors.Is(err, netx.ErrEncode) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	return c.mapError(netx.GetJSON(ctx, c.doer, c.url(path), c.header(), out))
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	return c.mapError(netx.PostJSON(ctx, c.doer, c.url(path), c.header(), in, out))
}

// embeddedError turns a 200 response carrying {"error": ...} into an APIError.
func embeddedError(msg string) error {
	if msg == "" {
		return nil
	}
	return &APIError{StatusCode: http.StatusOK, Message: msg}
}

func (c *HTTPClient) Status(ctx context.Context) (*ServerStatus, error) {
	var out ServerStatus
	if err := c.get(ctx, pathStatus, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Root(ctx context.Context) (*RootInfo, error) {
	var out RootInfo
	if err := c.get(ctx, pathRoot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type summaryResponse struct {
	Summary
	errorBody
}

func (c *HTTPClient) ProcessText(ctx context.Context, text string) (*Summary, error) {
	var out summaryResponse
	if err := c.post(ctx, pathProcessText, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.Summary, nil
}

func (c *HTTPClient) ProcessYouTube(ctx context.Context, videoURL string) (*Summary, error) {
	var out summaryResponse
	if err := c.post(ctx, pathProcessYouTube, map[string]string{"video_url": videoURL}, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.Summary, nil
}

type voiceRequest struct {
	AudioData   string `json:"audio_data"`
	PreviewOnly bool   `json:"preview_only"`
}

type voiceResponse struct {
	VoiceResult
	errorBody
}

// ProcessVoice uploads a recording. With previewOnly the backend only
// transcribes and skips the analysis.
func (c *HTTPClient) ProcessVoice(ctx context.Context, audio []byte, previewOnly bool) (*VoiceResult, error) {
	in := voiceRequest{
		AudioData:   base64.StdEncoding.EncodeToString(audio),
		PreviewOnly: previewOnly,
	}

	var out voiceResponse
	if err := c.post(ctx, pathProcessVoice, in, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.VoiceResult, nil
}

func (c *HTTPClient) UploadPDF(ctx context.Context, filename string, r io.Reader) (*Summary, error) {
	var out summaryResponse
	err := netx.PostFile(ctx, c.doer, c.url(pathUploadPDF), c.header(), pdfField, filename, r, &out)
	if err := c.mapError(err); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.Summary, nil
}

func (c *HTTPClient) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrNoText
	}
	if req.QuizType == "" {
		req.QuizType = QuizTypeAll
	}
	if req.Source == "" {
		req.Source = SourceText
	}

	var out struct {
		Quiz
		errorBody
	}
	if err := c.post(ctx, pathGenerateQuiz, req, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.Quiz, nil
}

func (c *HTTPClient) GenerateFlashcards(ctx context.Context, req FlashcardsRequest) (*FlashcardDeck, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrNoText
	}
	if req.Source == "" {
		req.Source = SourceText
	}

	var out struct {
		FlashcardDeck
		errorBody
	}
	if err := c.post(ctx, pathGenerateFlashcards, req, &out); err != nil {
		return nil, err
	}
	if err := embeddedError(out.Error); err != nil {
		return nil, err
	}
	return &out.FlashcardDeck, nil
}
