// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
)

// --- Input DTOs ---

// LoginInput defines the credentials submitted for a login attempt.
// The pair is ephemeral: it is verified and discarded, never persisted.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// ChangePasswordInput defines the data required to change a user's password.
type ChangePasswordInput struct {
	Email           string `json:"email" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput returns the issued bearer token after a successful login.
type LoginOutput struct {
	Token     string `json:"token"`
	Type      string `json:"type"`      // Always "Bearer".
	ExpiresIn int64  `json:"expiresIn"` // Token lifetime in milliseconds.
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Login verifies the credentials and issues a bearer token carrying the
	// user's role names. Unknown email, wrong password and disabled account
	// all fail identically.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Register validates and persists a new user with the default USER role.
	Register(ctx context.Context, input *RegisterInput) error

	// ChangePassword verifies the current password and stores a hash of the
	// new one.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	// CreateAdminUserIfNotExists seeds the well-known administrator account.
	// Idempotent; safe to run on every startup.
	CreateAdminUserIfNotExists(ctx context.Context) error
}
