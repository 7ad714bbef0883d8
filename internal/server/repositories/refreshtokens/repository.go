// Package refreshtokens provides the persistent store for refresh tokens:
// issuance, one-shot consumption with replay containment, and revocation.
// The store only ever sees SHA-256 hashes of raw tokens.
package refreshtokens

import (
	"context"
	"time"
)

// ConsumeStatus classifies the outcome of presenting a refresh token.
type ConsumeStatus int

const (
	// StatusOK: the token was live and has now been revoked (rotation).
	StatusOK ConsumeStatus = iota
	// StatusExpired: the token was past its expiry; the record is revoked.
	StatusExpired
	// StatusReused: the token had already been consumed. Every live token
	// of the same owner has been revoked in response.
	StatusReused
	// StatusNotFound: no record matches the presented token.
	StatusNotFound
)

// ConsumeResult reports the outcome of Consume. UserID is set for every
// status except StatusNotFound. RevokedCount is the number of family
// records revoked when Status is StatusReused.
type ConsumeResult struct {
	Status       ConsumeStatus
	UserID       string
	RevokedCount int64
}

// Repository defines operations for issuing, consuming, and revoking
// refresh tokens. Every state transition flips is_revoked false to true via a
// conditional update; records are never deleted and never un-revoked.
type Repository interface {
	// Create stores a new token record with an expiry of now+validity.
	// deviceInfo and ip are optional provenance metadata.
	Create(ctx context.Context, userID, tokenHash, deviceInfo, ip string, validity time.Duration) error

	// Consume presents a token for rotation. The check-and-revoke on the
	// matching record is atomic with respect to concurrent Consume calls on
	// the same hash: exactly one caller can observe a live record.
	Consume(ctx context.Context, tokenHash string) (*ConsumeResult, error)

	// Revoke revokes the matching non-revoked record if present and reports
	// whether a row changed. Unknown tokens are not an error.
	Revoke(ctx context.Context, tokenHash string) (bool, error)

	// RevokeAllForUser revokes every live record owned by userID and
	// returns the number of rows affected.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
}
