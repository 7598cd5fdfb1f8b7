package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	assert.Len(t, key1, 32)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestHashSecret_RoundTrip(t *testing.T) {
	salt, verifier := HashSecret([]byte("hunter2"))

	require.Len(t, salt, SaltSize)
	require.Len(t, verifier, 32)
	assert.NotContains(t, string(verifier), "hunter2")

	assert.True(t, VerifySecret([]byte("hunter2"), salt, verifier))
	assert.False(t, VerifySecret([]byte("hunter3"), salt, verifier))
}

func TestHashSecret_SaltsDiffer(t *testing.T) {
	s1, v1 := HashSecret([]byte("same"))
	s2, v2 := HashSecret([]byte("same"))

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, v1, v2)
}

func TestVerifySecret_EmptyStoredValues(t *testing.T) {
	assert.False(t, VerifySecret([]byte("x"), nil, []byte{1}))
	assert.False(t, VerifySecret([]byte("x"), []byte{1}, nil))
}
