package endpoint

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
)

var errDiskFull = errors.New("disk full")

type flakyRepo struct {
	*metadata.MemoryRepository

	mu      sync.Mutex
	failGet bool
	failSet bool
}

func newFlakyRepo() *flakyRepo {
	return &flakyRepo{MemoryRepository: metadata.NewMemoryRepository()}
}

func (r *flakyRepo) setFail(get, set bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failGet, r.failSet = get, set
}

func (r *flakyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	f := r.failGet
	r.mu.Unlock()
	if f {
		return nil, errDiskFull
	}
	return r.MemoryRepository.Get(ctx, key)
}

func (r *flakyRepo) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	f := r.failSet
	r.mu.Unlock()
	if f {
		return errDiskFull
	}
	return r.MemoryRepository.Set(ctx, key, value)
}

func (r *flakyRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	r.mu.Lock()
	f := r.failSet
	r.mu.Unlock()
	if f {
		return errDiskFull
	}
	return r.MemoryRepository.SetMany(ctx, values)
}

// fakeAPI answers probes through the supplied funcs.
type fakeAPI struct {
	status func(ctx context.Context) (*client.ServerStatus, error)
	root   func(ctx context.Context) (*client.RootInfo, error)
}

func (f *fakeAPI) Status(ctx context.Context) (*client.ServerStatus, error) { return f.status(ctx) }
func (f *fakeAPI) Root(ctx context.Context) (*client.RootInfo, error)       { return f.root(ctx) }

func (f *fakeAPI) ProcessText(context.Context, string) (*client.Summary, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAPI) ProcessYouTube(context.Context, string) (*client.Summary, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAPI) ProcessVoice(context.Context, []byte, bool) (*client.VoiceResult, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAPI) UploadPDF(context.Context, string, io.Reader) (*client.Summary, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAPI) GenerateQuiz(context.Context, client.QuizRequest) (*client.Quiz, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAPI) GenerateFlashcards(context.Context, client.FlashcardsRequest) (*client.FlashcardDeck, error) {
	return nil, errors.New("not implemented")
}

func withFake(f *fakeAPI) Option {
	return WithClient(func(client.BaseURLSource) client.Client { return f })
}
