package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"userhub/config"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	mockRepo "userhub/internal/mocks/repository"
	mockSvc "userhub/internal/mocks/service"
	"userhub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthTestConfig(adminEmail, adminPassword string) *config.Config {
	cfg := &config.Config{}
	cfg.Admin.Email = adminEmail
	cfg.Admin.Password = adminPassword

	return cfg
}

func createTestAuthService(t *testing.T, cfg *config.Config) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.ErrorCode())
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	stored := &entity.User{
		ID:       1,
		Email:    "a@b.com",
		Password: "stored_hash",
		Roles:    entity.Roles{entity.RoleUser},
		Enabled:  true,
	}

	fx.userRepo.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)
	fx.hasher.On("Check", "pw123", "stored_hash").Return(true)
	fx.tokenService.On("Issue", "a@b.com", []string{"USER"}).Return("signed.token", nil)
	fx.tokenService.On("TTL").Return(time.Hour)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "pw123"})

	require.NoError(t, err)
	assert.Equal(t, "signed.token", output.Token)
	assert.Equal(t, "Bearer", output.Type)
	assert.Equal(t, int64(3600000), output.ExpiresIn)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ghost@b.com").Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@b.com", Password: "pw123"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	stored := &entity.User{Email: "a@b.com", Password: "stored_hash", Roles: entity.Roles{entity.RoleUser}, Enabled: true}

	fx.userRepo.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)
	fx.hasher.On("Check", "wrong", "stored_hash").Return(false)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "wrong"})

	// The failure is indistinguishable from an unknown email.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	stored := &entity.User{Email: "a@b.com", Password: "stored_hash", Roles: entity.Roles{entity.RoleUser}, Enabled: false}

	fx.userRepo.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "pw123"})

	// Disabled accounts fail with the same message; the password is never checked.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	fx.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(false, nil)
	fx.hasher.On("Hash", "pw123").Return("hashed_pw", nil)
	fx.userRepo.On("Save", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			assert.Equal(t, "a@b.com", user.Email)
			assert.Equal(t, "hashed_pw", user.Password)
			assert.Equal(t, "A", user.Name)
			assert.Equal(t, entity.Roles{entity.RoleUser}, user.Roles)
			assert.True(t, user.Enabled)
			assert.False(t, user.CreatedAt.IsZero())
		}).
		Return(&entity.User{ID: 7, Email: "a@b.com"}, nil)

	err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "pw123", Name: "A"})

	require.NoError(t, err)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	for _, email := range []string{"not-an-email", "", "a b@c.com", "no@at@twice"} {
		err := fx.service.Register(ctx, &usecase.RegisterInput{Email: email, Password: "pw123", Name: "A"})
		assertAppErrorCode(t, err, "VALIDATION_FAILED")
	}

	fx.userRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Register_OverlongFields(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	longEmail := make([]byte, 60)
	for i := range longEmail {
		longEmail[i] = 'a'
	}

	err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    string(longEmail) + "@toolong.example",
		Password: "pw123",
		Name:     "A",
	})
	assertAppErrorCode(t, err, "VALIDATION_FAILED")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	fx.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(true, nil)

	err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "pw123", Name: "A"})

	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_Register_DuplicateRaceOnSave(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	fx.userRepo.On("ExistsByEmail", ctx, "a@b.com").Return(false, nil)
	fx.hasher.On("Hash", "pw123").Return("hashed_pw", nil)
	fx.userRepo.On("Save", ctx, mock.AnythingOfType("*entity.User")).Return(nil, repository.ErrDuplicateEmail)

	err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "pw123", Name: "A"})

	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	stored := &entity.User{ID: 1, Email: "a@b.com", Password: "old_hash", Roles: entity.Roles{entity.RoleUser}, Enabled: true}

	fx.userRepo.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)
	fx.hasher.On("Check", "pw123", "old_hash").Return(true)
	fx.hasher.On("Hash", "pw456").Return("new_hash", nil)
	fx.userRepo.On("Save", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			assert.Equal(t, "new_hash", user.Password)
		}).
		Return(stored, nil)

	err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		Email:           "a@b.com",
		CurrentPassword: "pw123",
		NewPassword:     "pw456",
	})

	require.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	stored := &entity.User{ID: 1, Email: "a@b.com", Password: "old_hash", Roles: entity.Roles{entity.RoleUser}, Enabled: true}

	fx.userRepo.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)
	fx.hasher.On("Check", "wrong", "old_hash").Return(false)

	err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		Email:           "a@b.com",
		CurrentPassword: "wrong",
		NewPassword:     "pw456",
	})

	assertAppErrorCode(t, err, "VALIDATION_FAILED")
	// The stored hash is left untouched.
	fx.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword_UnknownUser(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ghost@b.com").Return(nil, repository.ErrUserNotFound)

	err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		Email:           "ghost@b.com",
		CurrentPassword: "pw123",
		NewPassword:     "pw456",
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_CreateAdminUserIfNotExists_Creates(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("admin@userhub.local", "seed-password"))
	ctx := context.Background()

	fx.userRepo.On("ExistsByEmail", ctx, "admin@userhub.local").Return(false, nil)
	fx.hasher.On("Hash", "seed-password").Return("admin_hash", nil)
	fx.userRepo.On("Save", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			admin := args.Get(1).(*entity.User)
			assert.Equal(t, "admin@userhub.local", admin.Email)
			assert.Equal(t, entity.Roles{entity.RoleAdmin, entity.RoleUser}, admin.Roles)
			assert.True(t, admin.Enabled)
		}).
		Return(&entity.User{ID: 1}, nil)

	require.NoError(t, fx.service.CreateAdminUserIfNotExists(ctx))
}

func TestAuthService_CreateAdminUserIfNotExists_Idempotent(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("admin@userhub.local", "seed-password"))
	ctx := context.Background()

	// Second and later startups find the account and do nothing.
	fx.userRepo.On("ExistsByEmail", ctx, "admin@userhub.local").Return(true, nil).Twice()

	require.NoError(t, fx.service.CreateAdminUserIfNotExists(ctx))
	require.NoError(t, fx.service.CreateAdminUserIfNotExists(ctx))
	fx.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_CreateAdminUserIfNotExists_RaceLosesGracefully(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("admin@userhub.local", "seed-password"))
	ctx := context.Background()

	fx.userRepo.On("ExistsByEmail", ctx, "admin@userhub.local").Return(false, nil)
	fx.hasher.On("Hash", "seed-password").Return("admin_hash", nil)
	fx.userRepo.On("Save", ctx, mock.AnythingOfType("*entity.User")).Return(nil, repository.ErrDuplicateEmail)

	require.NoError(t, fx.service.CreateAdminUserIfNotExists(ctx))
}

func TestAuthService_CreateAdminUserIfNotExists_NotConfigured(t *testing.T) {
	fx := createTestAuthService(t, newAuthTestConfig("", ""))
	ctx := context.Background()

	require.NoError(t, fx.service.CreateAdminUserIfNotExists(ctx))
	fx.userRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}
