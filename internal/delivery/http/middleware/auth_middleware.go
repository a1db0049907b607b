package middleware

import (
	"strings"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the Authorization header into a request-scoped
// identity. It never rejects a request by itself: bad or missing tokens leave
// the request anonymous, and the route guards below decide what anonymous
// means for a given endpoint.
type AuthMiddleware struct {
	tokenService service.TokenService
	userRepo     repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenService service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService, userRepo: userRepo}
}

// Authenticate validates the bearer token, if any, and attaches the resulting
// identity to the request context. It runs at most once per request: when an
// identity is already attached the header is not inspected again.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if deliverycontext.GetIdentity(ctx) != nil {
			return next(c)
		}

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return next(c)
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := m.tokenService.Decode(tokenString)
		if err != nil {
			// Forged, malformed or foreign-signed token: proceed anonymous.
			return next(c)
		}

		user, err := m.userRepo.FindByEmail(ctx, claims.Subject)
		if err != nil || !user.Enabled {
			return next(c)
		}

		if !m.tokenService.IsValid(tokenString, user.Email) {
			return next(c)
		}

		identity := &entity.Identity{
			Subject: user.Email,
			// Unknown role names inside the token are dropped here, never forwarded.
			Roles: entity.RolesFromStrings(claims.Roles),
		}
		c.SetRequest(c.Request().WithContext(deliverycontext.WithIdentity(ctx, identity)))

		return next(c)
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if deliverycontext.GetIdentity(c.Request().Context()) == nil {
			return domainerrors.ErrUnauthorized
		}

		return next(c)
	}
}

// RequireRole is a middleware factory that rejects identities lacking the
// given role with 403. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := deliverycontext.GetIdentity(c.Request().Context())
			if identity == nil {
				return domainerrors.ErrUnauthorized
			}
			if !identity.HasRole(role) {
				return domainerrors.ErrForbidden.WithDetails("requires the '" + role.String() + "' role")
			}

			return next(c)
		}
	}
}
