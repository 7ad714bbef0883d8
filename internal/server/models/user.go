package models

import "time"

// DefaultRole is assigned to users created through registration.
const DefaultRole = "backend_developer"

// DefaultAvatarURL is used when a user has not set an avatar.
const DefaultAvatarURL = "https://api.dicebear.com/9.x/initials/svg?seed=default"

// User is the read-only identity the auth core works with. PasswordHash is
// populated only by the email+password lookup used during login and must
// never be serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
