package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// secretTokenBytes gives 256 bits of entropy per one-time token.
const secretTokenBytes = 32

// SecretToken is a one-time, time-limited secret. Plain is handed to the user
// exactly once (emailed link); only Hashed is ever persisted.
type SecretToken struct {
	Plain     string
	Hashed    string
	ExpiresAt time.Time
}

// GenerateSecretToken produces a random token with the given lifetime.
// The stored form is a fast deterministic digest, not a password hash,
// because verification looks records up by digest.
func GenerateSecretToken(ttl time.Duration) (SecretToken, error) {
	b := make([]byte, secretTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return SecretToken{}, err
	}
	plain := hex.EncodeToString(b)
	return SecretToken{
		Plain:     plain,
		Hashed:    HashSecretToken(plain),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashSecretToken maps a presented plaintext token to its stored digest.
func HashSecretToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
