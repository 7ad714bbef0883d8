package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"taskboard/internal/common"
)

// refreshTokenBytes gives 256 bits of entropy per raw token.
const refreshTokenBytes = 32

// NewRefreshToken returns a fresh opaque refresh token, URL-safe encoded.
// The caller hands the raw value to the client exactly once; only its hash
// is ever stored.
func NewRefreshToken() (string, error) {
	return common.MakeRandURLString(refreshTokenBytes)
}

// HashRefreshToken maps a raw refresh token to its stored form. Raw tokens
// are high-entropy, so a fast one-way hash suffices and keeps the lookup a
// point query on a unique column.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
