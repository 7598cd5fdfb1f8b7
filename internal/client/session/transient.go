package session

import "sync"

// TransientTier holds an identity for the lifetime of the process only.
// The owner creates one per process and passes it to NewStore, so a store
// rebuilt within the same process (a soft reload) can pick it up again.
type TransientTier struct {
	mu       sync.Mutex
	identity *Identity
}

func NewTransientTier() *TransientTier {
	return &TransientTier{}
}

// Load returns a copy of the held identity, or nil.
func (t *TransientTier) Load() *Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.identity == nil {
		return nil
	}
	id := *t.identity
	return &id
}

func (t *TransientTier) Store(id Identity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.identity = &id
}

func (t *TransientTier) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.identity = nil
}
