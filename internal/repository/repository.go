// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in the driver-specific
// subpackages (mysql for deployments, sqlite for local development and tests).
package repository

import (
	"context"

	"github.com/sakif/parking-backend/internal/model"
)

// UserRepository is the persistence contract for user accounts.
//
// Create inserts a new user row and fills in user.UserID (store-assigned,
// auto-increment) and user.CreatedAt. When the insert trips a UNIQUE
// constraint, implementations must return an apperror.Conflict tagged with
// the violated field ("uid" or "email") — determined from the named
// constraint the engine reports, never guessed from the input.
//
// GetByUID returns the user with the given user-chosen identifier, or an
// error wrapping apperror.ErrNotFound when no such row exists.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUID(ctx context.Context, uid string) (*model.User, error)
}
