package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPClientWithDoer(StaticBaseURL(ts.URL+"/"), ts.Client()), ts
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestStatus_DecodesAndTagsRequest(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/status", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get(common.RequestIDHeaderName))
		assert.NoError(t, err)
		assert.Equal(t, common.UserAgent, r.Header.Get("User-Agent"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"status":       "online",
			"version":      "1.0.0",
			"ai_powered":   true,
			"hostname":     "box",
			"ip_addresses": []string{"192.168.1.5"},
			"flask_port":   8000,
		})
	})

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", st.Status)
	assert.True(t, st.AIPowered)
	assert.Equal(t, []string{"192.168.1.5"}, st.IPAddresses)
	assert.Equal(t, 8000, st.Port)
}

func TestRoot_OptionalCapability(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "Welcome", "version": "1.1.0"})
	})

	info, err := c.Root(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info.AIPowered)
	assert.Equal(t, "Welcome", info.Message)
}

func TestProcessText_SendsBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/process-text", r.URL.Path)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "photosynthesis is neat", in["text"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"summary":        "plants eat light",
			"key_points":     []string{"light", "sugar"},
			"key_concepts":   []string{"chlorophyll"},
			"word_count":     3,
			"sentence_count": 1,
			"full_text":      "photosynthesis is neat",
		})
	})

	s, err := c.ProcessText(context.Background(), "photosynthesis is neat")
	require.NoError(t, err)
	assert.Equal(t, "plants eat light", s.Summary)
	assert.Equal(t, []string{"light", "sugar"}, s.KeyPoints)
	assert.Equal(t, 3, s.WordCount)
}

func TestProcessYouTube_BackendErrorIsAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "https://youtu.be/xyz", in["video_url"])
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Invalid YouTube URL format"})
	})

	_, err := c.ProcessYouTube(context.Background(), "https://youtu.be/xyz")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid YouTube URL format", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestProcessVoice_EncodesAudio(t *testing.T) {
	audio := []byte{0x00, 0x01, 0xfe, 0xff}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in voiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.True(t, in.PreviewOnly)
		raw, err := base64.StdEncoding.DecodeString(in.AudioData)
		require.NoError(t, err)
		assert.Equal(t, audio, raw)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"source":                "voice_note_preview",
			"full_text":             "hello",
			"conversion_successful": false,
			"ffmpeg_missing":        true,
			"ffmpeg_message":        "install ffmpeg",
		})
	})

	res, err := c.ProcessVoice(context.Background(), audio, true)
	require.NoError(t, err)
	assert.Equal(t, SourceVoicePreview, res.Source)
	assert.True(t, res.FFmpegMissing)
	assert.Equal(t, "install ffmpeg", res.FFmpegMessage)
}

func TestUploadPDF_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload-pdf", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "notes.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(body))

		writeJSON(t, w, http.StatusOK, map[string]any{"summary": "s", "full_text": "t", "source": "pdf"})
	})

	s, err := c.UploadPDF(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, SourcePDF, s.Source)
}

func TestGenerateQuiz_DefaultsAndEmbeddedError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		var in QuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, QuizTypeAll, in.QuizType)
		assert.Equal(t, SourceText, in.Source)
		assert.Equal(t, 5, in.NumQuestions)

		if n == 1 {
			writeJSON(t, w, http.StatusOK, map[string]any{"questions": []map[string]any{
				{"type": "multiple-choice", "question": "q1", "options": []string{"a", "b"}, "answer": "b"},
				{"type": "true-false", "question": "q2", "answer": false},
			}})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"error": "Text is too short to generate meaningful quiz questions"})
	})

	q, err := c.GenerateQuiz(context.Background(), QuizRequest{Text: "long enough", NumQuestions: 5})
	require.NoError(t, err)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "b", q.Questions[0].CorrectAnswer())

	_, err = c.GenerateQuiz(context.Background(), QuizRequest{Text: "short", NumQuestions: 5})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)

	_, err = c.GenerateQuiz(context.Background(), QuizRequest{Text: "  "})
	require.ErrorIs(t, err, ErrNoText)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateFlashcards(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in FlashcardsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 10, in.NumCards)
		assert.Equal(t, SourceYouTube, in.Source)
		writeJSON(t, w, http.StatusOK, map[string]any{"flashcards": []map[string]any{
			{"front": "Define: cell", "back": "unit of life", "key_term": "cell", "related_concepts": []string{"tissue"}},
		}})
	})

	d, err := c.GenerateFlashcards(context.Background(), FlashcardsRequest{Text: "x", NumCards: 10, Source: SourceYouTube})
	require.NoError(t, err)
	require.Len(t, d.Flashcards, 1)
	assert.Equal(t, []string{"tissue"}, d.Flashcards[0].RelatedConcepts)
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	c := NewHTTPClient(StaticBaseURL(base), 0)
	_, err := c.Status(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMalformedResponseIsNotUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestEmptyStatusBodyIsNotAnAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	st, err := c.Status(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	assert.Nil(t, st)
}

type switchingBase struct{ url string }

func (s *switchingBase) BaseURL() string { return s.url }

func TestBaseURLIsReadPerRequest(t *testing.T) {
	mk := func(name string) *httptest.Server {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"status": name})
		}))
		t.Cleanup(ts.Close)
		return ts
	}
	a, b := mk("a"), mk("b")

	src := &switchingBase{url: a.URL}
	c := NewHTTPClient(src, 0)

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", st.Status)

	src.url = b.URL
	st, err = c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", st.Status)
}
