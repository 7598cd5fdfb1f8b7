package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/config"
	"github.com/dmitrijs2005/studycompanion/internal/client/endpoint"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studycompanion/internal/client/session"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

const (
	testAdmin     = "admin"
	testAdminPass = "secret"
)

type fakeAPI struct {
	mu sync.Mutex

	status    *client.ServerStatus
	statusErr error
	root      *client.RootInfo
	rootErr   error

	summary    *client.Summary
	voice      *client.VoiceResult
	quiz       *client.Quiz
	deck       *client.FlashcardDeck
	processErr error

	gotText      string
	gotURL       string
	gotFilename  string
	gotUpload    []byte
	gotAudio     []byte
	gotPreview   bool
	gotQuiz      client.QuizRequest
	gotCards     client.FlashcardsRequest
	statusCalls  int
	rootCalls    int
}

func (f *fakeAPI) Status(context.Context) (*client.ServerStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := *f.status
	return &st, nil
}

func (f *fakeAPI) Root(context.Context) (*client.RootInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rootCalls++
	if f.rootErr != nil {
		return nil, f.rootErr
	}
	return f.root, nil
}

func (f *fakeAPI) ProcessText(_ context.Context, text string) (*client.Summary, error) {
	f.gotText = text
	return f.summary, f.processErr
}

func (f *fakeAPI) ProcessYouTube(_ context.Context, u string) (*client.Summary, error) {
	f.gotURL = u
	return f.summary, f.processErr
}

func (f *fakeAPI) ProcessVoice(_ context.Context, audio []byte, preview bool) (*client.VoiceResult, error) {
	f.gotAudio, f.gotPreview = audio, preview
	return f.voice, f.processErr
}

func (f *fakeAPI) UploadPDF(_ context.Context, name string, r io.Reader) (*client.Summary, error) {
	f.gotFilename = name
	f.gotUpload, _ = io.ReadAll(r)
	return f.summary, f.processErr
}

func (f *fakeAPI) GenerateQuiz(_ context.Context, req client.QuizRequest) (*client.Quiz, error) {
	f.gotQuiz = req
	return f.quiz, f.processErr
}

func (f *fakeAPI) GenerateFlashcards(_ context.Context, req client.FlashcardsRequest) (*client.FlashcardDeck, error) {
	f.gotCards = req
	return f.deck, f.processErr
}

type testApp struct {
	*App
	api  *fakeAPI
	repo *metadata.MemoryRepository
	out  *bytes.Buffer
}

// newTestApp wires an App over in-memory stores and api. input feeds every
// prompt and the REPL.
func newTestApp(t *testing.T, api *fakeAPI, input string) *testApp {
	t.Helper()

	if api.status == nil {
		api.status = &client.ServerStatus{Status: "online", Version: "1.0.0", AIPowered: true}
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repo := metadata.NewMemoryRepository()
	logger := logging.Discard()

	reg := session.NewRegistry(repo, logger)
	auth := session.NewLocalAuthenticator(testAdmin, testAdminPass, reg)
	sessions := session.NewStore(repo, session.NewTransientTier(), auth, logger, session.WithRegistry(reg))
	sessions.Initialize(context.Background())

	ep := endpoint.NewStore(repo, endpoint.NewResolver("", 0), endpoint.Target{Platform: endpoint.PlatformOther}, logger,
		endpoint.WithClient(func(client.BaseURLSource) client.Client { return api }))
	if err := ep.Initialize(context.Background()); err != nil {
		t.Fatalf("endpoint init: %v", err)
	}

	out := &bytes.Buffer{}
	app := NewApp(cfg, sessions, ep, api, logger)
	app.reader = bufio.NewReader(strings.NewReader(input))
	app.out = out

	return &testApp{App: app, api: api, repo: repo, out: out}
}

// stubPassword makes every password prompt return pw.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func (ta *testApp) login(t *testing.T, user string) {
	t.Helper()
	id, err := ta.sessions.Login(context.Background(), session.Credentials{Username: user, Password: []byte("pw")}, false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if id.Username != user {
		t.Fatalf("login as %q, got %q", user, id.Username)
	}
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}
