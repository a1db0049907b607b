package usecase

import (
	"context"

	"userhub/internal/domain/entity"
)

// UserUsecase defines the interface for administrative user operations.
type UserUsecase interface {
	// ListUsers returns every user, ordered by ID. Password hashes are on
	// the entity; the delivery layer must never serialize them.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// GetUser returns a single user by ID.
	GetUser(ctx context.Context, id int64) (*entity.User, error)

	// SetEnabled flips the account's enabled flag, blocking or restoring
	// the ability to authenticate.
	SetEnabled(ctx context.Context, id int64, enabled bool) (*entity.User, error)
}
