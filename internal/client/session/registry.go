package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

// Registry is the set of registered accounts, persisted as a JSON array
// under the registeredUsers key. Usernames are unique and case-sensitive.
//
// The set is read from the repository on first use and retried until a read
// succeeds; it is never written while unread. A failed write keeps the new
// record in memory so the account still works until the process exits.
type Registry struct {
	repo   metadata.Repository
	logger logging.Logger

	mu      sync.Mutex
	loaded  bool
	records []CredentialRecord
}

func NewRegistry(repo metadata.Repository, logger logging.Logger) *Registry {
	return &Registry{repo: repo, logger: logger}
}

// load reads the persisted set once. A read or decode failure leaves the
// registry unloaded and returns a *common.StorageError.
func (r *Registry) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	raw, err := r.repo.Get(ctx, metadata.KeyRegisteredUsers)
	if err != nil {
		r.logger.Warn(ctx, "registered users unreadable", "error", err)
		return &common.StorageError{Op: "get", Key: metadata.KeyRegisteredUsers, Err: err}
	}

	var records []CredentialRecord
	if raw != nil {
		if err := json.Unmarshal(raw, &records); err != nil {
			r.logger.Warn(ctx, "registered users undecodable", "error", err)
			return &common.StorageError{Op: "decode", Key: metadata.KeyRegisteredUsers, Err: err}
		}
	}

	r.records = records
	r.loaded = true
	return nil
}

func (r *Registry) indexOf(username string) int {
	for i := range r.records {
		if r.records[i].Username == username {
			return i
		}
	}
	return -1
}

// Lookup returns the record for username. It fails with a
// *common.StorageError when the set cannot be read.
func (r *Registry) Lookup(ctx context.Context, username string) (CredentialRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return CredentialRecord{}, false, err
	}
	i := r.indexOf(username)
	if i < 0 {
		return CredentialRecord{}, false, nil
	}
	return r.records[i], true, nil
}

// Add appends rec and persists the whole set. It returns ErrDuplicateUsername
// without touching the existing record. A *common.StorageError with Op "get"
// or "decode" means the set is unread and nothing was added; Op "set" means
// the write failed and the record is kept in memory only.
func (r *Registry) Add(ctx context.Context, rec CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return err
	}
	if r.indexOf(rec.Username) >= 0 {
		return ErrDuplicateUsername
	}
	r.records = append(r.records, rec)

	raw, err := json.Marshal(r.records)
	if err == nil {
		err = r.repo.Set(ctx, metadata.KeyRegisteredUsers, raw)
	}
	if err != nil {
		return &common.StorageError{Op: "set", Key: metadata.KeyRegisteredUsers, Err: err}
	}
	return nil
}

// List returns the registered accounts without their salts and verifiers.
func (r *Registry) List(ctx context.Context) ([]CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}
	out := make([]CredentialRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = CredentialRecord{
			Username:     rec.Username,
			IsAdmin:      rec.IsAdmin,
			RegisteredAt: rec.RegisteredAt,
		}
	}
	return out, nil
}
