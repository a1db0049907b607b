// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"userhub/config"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"
	"userhub/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Conservative local@domain shape; anything fancier is rejected.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)

const (
	maxEmailLength = 64
	maxNameLength  = 64
	// bcrypt ignores input beyond 72 bytes, so longer passwords are rejected
	// instead of silently truncated.
	maxPasswordLength = 72

	bearerTokenType = "Bearer"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo      repository.UserRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	adminEmail    string
	adminPassword string
	logger        *slog.Logger
	now           func() time.Time
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:      params.UserRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		adminEmail:    params.Config.Admin.Email,
		adminPassword: params.Config.Admin.Password,
		logger:        params.Logger,
		now:           time.Now,
	}
}

// Login verifies the submitted credentials and issues a bearer token.
// Every failure path returns the same ErrInvalidCredentials so callers
// cannot distinguish "unknown email" from "wrong password".
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to look up user for login")
	}

	if !user.Enabled {
		srv.logger.Warn("Login attempt on disabled account", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !srv.hasher.Check(input.Password, user.Password) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.Issue(user.Email, user.Roles.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.logger.Info("User logged in", slog.String("email", user.Email))

	return &usecase.LoginOutput{
		Token:     token,
		Type:      bearerTokenType,
		ExpiresIn: srv.tokenService.TTL().Milliseconds(),
	}, nil
}

// Register validates and persists a new user with the default USER role.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	if err := validateRegistration(input); err != nil {
		return err
	}

	exists, err := srv.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}
	if exists {
		return domainerrors.ErrEmailAlreadyRegistered
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Email:     input.Email,
		Password:  hash,
		Name:      input.Name,
		CreatedAt: srv.now().UTC(),
		Roles:     entity.Roles{entity.RoleUser},
		Enabled:   true,
	}

	if _, err := srv.userRepo.Save(ctx, user); err != nil {
		// The unique constraint is the real uniqueness guard; the earlier
		// ExistsByEmail check only races with concurrent registrations.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domainerrors.ErrEmailAlreadyRegistered
		}

		return errors.Wrap(err, "failed to persist new user")
	}

	srv.logger.Info("User registered", slog.String("email", input.Email))

	return nil
}

// ChangePassword verifies the current password through the hasher's Check
// primitive and persists a hash of the new one. Bcrypt hashes are salted, so
// re-hashing the current password and comparing ciphertexts would never match.
func (srv *authService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	if input.NewPassword == "" || len(input.NewPassword) > maxPasswordLength {
		return domainerrors.ErrValidationFailed.WithDetails("newPassword: must be between 1 and 72 characters")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to look up user for password change")
	}

	if !srv.hasher.Check(input.CurrentPassword, user.Password) {
		return domainerrors.ErrValidationFailed.WithDetails("currentPassword: does not match the stored password")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user.Password = hash
	if _, err := srv.userRepo.Save(ctx, user); err != nil {
		return errors.Wrap(err, "failed to persist password change")
	}

	srv.logger.Info("Password changed", slog.String("email", user.Email))

	return nil
}

// CreateAdminUserIfNotExists seeds the configured administrator account with
// roles {ADMIN, USER}. Called on every startup; creates at most one account.
func (srv *authService) CreateAdminUserIfNotExists(ctx context.Context) error {
	if srv.adminEmail == "" || srv.adminPassword == "" {
		srv.logger.Warn("Bootstrap admin not configured, skipping seed")

		return nil
	}

	exists, err := srv.userRepo.ExistsByEmail(ctx, srv.adminEmail)
	if err != nil {
		return errors.Wrap(err, "failed to check for existing admin user")
	}
	if exists {
		return nil
	}

	hash, err := srv.hasher.Hash(srv.adminPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	admin := &entity.User{
		Email:     srv.adminEmail,
		Password:  hash,
		Name:      "Administrator",
		CreatedAt: srv.now().UTC(),
		Roles:     entity.Roles{entity.RoleAdmin, entity.RoleUser},
		Enabled:   true,
	}

	if _, err := srv.userRepo.Save(ctx, admin); err != nil {
		// Another replica won the race; the account exists, which is all we want.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}

		return errors.Wrap(err, "failed to persist bootstrap admin")
	}

	srv.logger.Info("Bootstrap admin created", slog.String("email", srv.adminEmail))

	return nil
}

func validateRegistration(input *usecase.RegisterInput) error {
	var problems []string

	switch {
	case input.Email == "":
		problems = append(problems, "email: required")
	case len(input.Email) > maxEmailLength:
		problems = append(problems, fmt.Sprintf("email: must be at most %d characters", maxEmailLength))
	case !emailPattern.MatchString(input.Email):
		problems = append(problems, "email: must be a valid address")
	}

	switch {
	case input.Name == "":
		problems = append(problems, "name: required")
	case len(input.Name) > maxNameLength:
		problems = append(problems, fmt.Sprintf("name: must be at most %d characters", maxNameLength))
	}

	switch {
	case input.Password == "":
		problems = append(problems, "password: required")
	case len(input.Password) > maxPasswordLength:
		problems = append(problems, fmt.Sprintf("password: must be at most %d characters", maxPasswordLength))
	}

	if len(problems) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}
