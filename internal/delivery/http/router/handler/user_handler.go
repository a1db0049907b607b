package handler

import (
	"net/http"
	"strconv"
	"time"

	"userhub/internal/delivery/http/response"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// UserResponse is the wire representation of a user. The password hash stays
// on the entity and is never part of this struct.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Roles     []string  `json:"roles"`
	Enabled   bool      `json:"enabled"`
}

// SetEnabledInput toggles an account's ability to authenticate.
type SetEnabledInput struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func newUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		Roles:     user.Roles.ToStrings(),
		Enabled:   user.Enabled,
	}
}

// ListUsers handles the request to list every user.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]*UserResponse, len(users))
	for i, user := range users {
		items[i] = newUserResponse(user)
	}

	return response.Success(c, http.StatusOK, items, "Users retrieved successfully")
}

// GetUser handles the request to fetch a single user by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user), "User retrieved successfully")
}

// SetEnabled handles the administrative enable/disable toggle.
func (h *UserHandler) SetEnabled(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var input SetEnabledInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid enabled flag input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.SetEnabled(c.Request().Context(), id, *input.Enabled)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user), "User updated successfully")
}

func parseUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WithDetails("id: must be an integer")
	}

	return id, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
