package context

import (
	"context"

	"userhub/internal/domain/entity"
)

// KeyIdentity is the key for the authenticated identity in context.
// A missing value means the request is anonymous.
const KeyIdentity ContextKey = "identity"

// WithIdentity returns a new context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity *entity.Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// GetIdentity extracts the authenticated identity from context.Context.
// Returns nil for anonymous requests.
func GetIdentity(ctx context.Context) *entity.Identity {
	if identity, ok := ctx.Value(KeyIdentity).(*entity.Identity); ok {
		return identity
	}

	return nil
}
