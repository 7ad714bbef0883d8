package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandURLString returns a URL-safe base64 string built from size random
// bytes. With size=32 the result carries 256 bits of entropy.
func MakeRandURLString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
