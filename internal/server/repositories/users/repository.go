// Package users declares the user-directory contract consumed by the
// session core. The directory owns identity data; the auth layers treat it
// as read-only apart from Create.
package users

import (
	"context"

	"taskboard/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user without password material, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmailWithPassword is the single lookup that exposes the stored
	// password hash; it exists only to serve login.
	GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
}
