package session

import (
	"context"
	"crypto/subtle"

	"github.com/dmitrijs2005/studycompanion/internal/cryptox"
)

// Authenticator decides whether a username/password pair may log in and
// whether it carries the admin flag. It stands in for a remote auth service.
type Authenticator interface {
	Authenticate(ctx context.Context, username string, password []byte) (isAdmin bool, err error)
}

const (
	DefaultAdminUsername = "hussain-admin"
	DefaultAdminPassword = "admin"
)

// LocalAuthenticator is the offline placeholder:
//   - the configured admin pair grants admin;
//   - a registered username must match its stored verifier;
//   - any other non-empty pair is accepted without admin;
//   - an unreadable registry refuses everyone but the admin.
type LocalAuthenticator struct {
	adminUsername []byte
	adminPassword []byte
	registry      *Registry
}

// NewLocalAuthenticator builds the placeholder authenticator. Empty admin
// credentials fall back to the defaults. registry may be nil.
func NewLocalAuthenticator(adminUsername, adminPassword string, registry *Registry) *LocalAuthenticator {
	if adminUsername == "" {
		adminUsername = DefaultAdminUsername
	}
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	return &LocalAuthenticator{
		adminUsername: []byte(adminUsername),
		adminPassword: []byte(adminPassword),
		registry:      registry,
	}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, username string, password []byte) (bool, error) {
	if username == "" || len(password) == 0 {
		return false, ErrValidation
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), a.adminUsername)
	passOK := subtle.ConstantTimeCompare(password, a.adminPassword)
	if userOK&passOK == 1 {
		return true, nil
	}

	if a.registry != nil {
		rec, ok, err := a.registry.Lookup(ctx, username)
		if err != nil {
			return false, err
		}
		if ok {
			if !cryptox.VerifySecret(password, rec.Salt, rec.Verifier) {
				return false, ErrInvalidCredentials
			}
			return rec.IsAdmin, nil
		}
	}

	return false, nil
}
