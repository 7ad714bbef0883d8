// Package auth provides the stateless crypto pieces of the session core:
// bcrypt password hashing, JWT access-token signing/parsing, and generation
// and hashing of opaque refresh tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/common"
)

// Claims carried by an access token: subject id (RegisteredClaims.Subject)
// plus email and role.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GenerateToken signs a short-lived HS256 access token for the given user.
func GenerateToken(userID, email, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  role,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates signature and expiry and returns the claims.
// No storage round trip is involved.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
