package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
)

const resetTokenBytes = 32

// NewResetToken returns a URL-safe random secret and the hash to store for it.
func NewResetToken() (raw string, hash string, err error) {
	return newResetToken(rand.Reader)
}

func newResetToken(r io.Reader) (string, string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", "", err
	}

	raw := base64.RawURLEncoding.EncodeToString(b)
	return raw, HashResetToken(raw), nil
}

// HashResetToken is the hex SHA-256 of the raw secret.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
