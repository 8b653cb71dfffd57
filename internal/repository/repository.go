// Package repository declares the storage interfaces the services depend
// on. Concrete backends live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/nayeem/foodjudge/internal/model"
)

// UserRepository persists user accounts and their personas. All lookups
// are keyed by email (case-sensitive).
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict (wrapped)
	// if the email is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user for the given email, or an error
	// wrapping apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdatePersona overwrites the stored persona for an existing user.
	// Returns apperror.ErrNotFound (wrapped) if no such user exists.
	UpdatePersona(ctx context.Context, email, persona string) error
}
