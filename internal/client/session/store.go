package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/dmitrijs2005/studycompanion/internal/cryptox"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

// Store owns the current identity. All operations are serialized; a call
// returns only after its persistence step has completed.
type Store struct {
	repo      metadata.Repository
	transient *TransientTier
	auth      Authenticator
	registry  *Registry
	logger    logging.Logger
	now       func() time.Time

	mu          sync.Mutex
	initialized bool
	loading     bool
	current     *Identity
	tier        Tier
}

type Option func(*Store)

// WithClock overrides time.Now for login timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRegistry shares a registry with the authenticator. Without it the
// store builds its own over repo.
func WithRegistry(r *Registry) Option {
	return func(s *Store) { s.registry = r }
}

func NewStore(repo metadata.Repository, transient *TransientTier, auth Authenticator, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		transient: transient,
		auth:      auth,
		logger:    logger.With("component", "session"),
		now:       time.Now,
		loading:   true,
	}
	for _, o := range opts {
		o(s)
	}
	if s.transient == nil {
		s.transient = NewTransientTier()
	}
	if s.registry == nil {
		s.registry = NewRegistry(repo, s.logger)
	}
	return s
}

// Initialize restores the identity from the durable tier, then from the
// transient tier. Only the first call loads; later calls return at once.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.markReady()

	if id := s.loadDurable(ctx); id != nil {
		s.current, s.tier = id, TierDurable
		s.logger.Info(ctx, "session restored", "username", id.Username, "tier", TierDurable)
		return
	}
	if id := s.transient.Load(); id != nil {
		s.current, s.tier = id, TierTransient
		s.logger.Info(ctx, "session restored", "username", id.Username, "tier", TierTransient)
	}
}

func (s *Store) loadDurable(ctx context.Context) *Identity {
	raw, err := s.repo.Get(ctx, metadata.KeyUserData)
	if err != nil {
		s.logger.Warn(ctx, "stored identity unreadable", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.Username == "" {
		s.logger.Warn(ctx, "stored identity undecodable", "error", err)
		return nil
	}
	return &id
}

// markReady ends the loading phase. Any mutation counts as initialization so
// a later Initialize cannot overwrite a fresher identity.
func (s *Store) markReady() {
	s.initialized = true
	s.loading = false
}

// Login authenticates c and makes the result the current identity. The
// password is wiped before returning.
func (s *Store) Login(ctx context.Context, c Credentials, remember bool) (*Identity, error) {
	defer common.WipeByteArray(c.Password)

	username := strings.TrimSpace(c.Username)
	if username == "" || len(c.Password) == 0 {
		return nil, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	isAdmin, err := s.auth.Authenticate(ctx, username, c.Password)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "username", username, "error", err)
		return nil, err
	}

	id := s.establish(ctx, Identity{Username: username, IsAdmin: isAdmin, LoginTime: s.now().UTC()}, remember)
	return &id, nil
}

// establish stores id in exactly one tier and makes it current. A failed
// durable write degrades to the transient tier.
func (s *Store) establish(ctx context.Context, id Identity, remember bool) Identity {
	s.markReady()

	tier := TierTransient
	if remember {
		if err := s.writeDurable(ctx, id); err != nil {
			s.logger.Warn(ctx, "remember me unavailable, keeping session in memory", "error", err)
		} else {
			tier = TierDurable
		}
	}

	if tier == TierDurable {
		s.transient.Clear()
	} else {
		s.transient.Store(id)
		if err := s.repo.Delete(ctx, metadata.KeyUserData); err != nil {
			s.logger.Warn(ctx, "failed to clear stored identity", "error", err)
		}
	}

	s.current, s.tier = &id, tier
	s.logger.Info(ctx, "logged in", "username", id.Username, "admin", id.IsAdmin, "tier", tier)
	return id
}

func (s *Store) writeDurable(ctx context.Context, id Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, metadata.KeyUserData, raw); err != nil {
		return &common.StorageError{Op: "set", Key: metadata.KeyUserData, Err: err}
	}
	return nil
}

// Logout forgets the identity in memory and in both tiers. It is idempotent;
// storage failures are logged only.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markReady()
	s.current, s.tier = nil, TierNone
	s.transient.Clear()

	if err := s.repo.Delete(ctx, metadata.KeyUserData); err != nil {
		s.logger.Warn(ctx, "failed to clear stored identity", "error", err)
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// Register creates a non-admin account and logs it in. The password is
// wiped before returning.
func (s *Store) Register(ctx context.Context, username string, password []byte, remember bool) (*Identity, error) {
	defer common.WipeByteArray(password)

	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	salt, verifier := cryptox.HashSecret(password)
	rec := CredentialRecord{
		Username:     username,
		Salt:         salt,
		Verifier:     verifier,
		RegisteredAt: s.now().UTC(),
	}

	if err := s.registry.Add(ctx, rec); err != nil {
		var se *common.StorageError
		if !errors.As(err, &se) || se.Op != "set" {
			return nil, err
		}
		s.logger.Warn(ctx, "registration kept in memory only", "username", username, "error", err)
	}

	id := s.establish(ctx, Identity{Username: username, LoginTime: s.now().UTC()}, remember)
	return &id, nil
}

// Users lists registered accounts. Only an admin may call it.
func (s *Store) Users(ctx context.Context) ([]CredentialRecord, error) {
	s.mu.Lock()
	if s.current == nil || !s.current.IsAdmin {
		s.mu.Unlock()
		return nil, ErrForbidden
	}
	s.mu.Unlock()

	return s.registry.List(ctx)
}

// Current returns a copy of the current identity, or nil.
func (s *Store) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsAdmin
}

// Loading reports whether Initialize has not run yet.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Tier() Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}
