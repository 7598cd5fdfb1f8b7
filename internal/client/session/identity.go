package session

import "time"

// Identity is the authenticated principal. It is stored as JSON under the
// userData key.
type Identity struct {
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	LoginTime time.Time `json:"loginTime"`
}

// CredentialRecord is a registered account. Salt and Verifier are produced by
// cryptox.HashSecret; the password itself is not kept.
type CredentialRecord struct {
	Username     string    `json:"username"`
	Salt         []byte    `json:"salt,omitempty"`
	Verifier     []byte    `json:"verifier,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Credentials is the login form. Password is wiped by the store once used.
type Credentials struct {
	Username string
	Password []byte
}

// Tier says where the current identity is held.
type Tier int

const (
	TierNone Tier = iota
	TierDurable
	TierTransient
)

func (t Tier) String() string {
	switch t {
	case TierDurable:
		return "durable"
	case TierTransient:
		return "transient"
	default:
		return "none"
	}
}
