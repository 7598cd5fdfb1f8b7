package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
)

var errDiskFull = errors.New("disk full")

// flakyRepo is an in-memory repository whose operations can be made to fail.
type flakyRepo struct {
	*metadata.MemoryRepository

	mu         sync.Mutex
	failGet    bool
	failSet    bool
	failDelete bool
}

func newFlakyRepo() *flakyRepo {
	return &flakyRepo{MemoryRepository: metadata.NewMemoryRepository()}
}

func (r *flakyRepo) fail(get, set, del bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failGet, r.failSet, r.failDelete = get, set, del
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

func (r *flakyRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	f := r.failDelete
	r.mu.Unlock()
	if f {
		return errDiskFull
	}
	return r.MemoryRepository.Delete(ctx, key)
}
