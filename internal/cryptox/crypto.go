// Package cryptox holds the password hashing primitives used for locally
// registered accounts. Secrets are never stored; only a random salt and a
// verifier derived from argon2id are kept.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/studycompanion/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length in bytes of salts produced by HashSecret.
const SaltSize = 32

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value that is persisted.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// HashSecret generates a fresh salt and returns it together with the
// verifier for password.
func HashSecret(password []byte) (salt []byte, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}

// VerifySecret reports whether password matches the stored salt/verifier
// pair. The comparison is constant time.
func VerifySecret(password, salt, verifier []byte) bool {
	if len(salt) == 0 || len(verifier) == 0 {
		return false
	}
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}
