package models

import "time"

// RefreshToken is a stored refresh-token record. Only the SHA-256 hash of the
// raw token is persisted; the raw value is handed to the client exactly once.
// IsRevoked only ever flips from false to true.
type RefreshToken struct {
	ID         int64
	UserID     string
	TokenHash  string
	DeviceInfo string
	IPAddress  string
	IsRevoked  bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
