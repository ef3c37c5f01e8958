package auth

import (
	"context"

	"github.com/polycampus/backend/internal/app/models"
)

type contextKey struct{}

var identityKey contextKey

// WithIdentity returns a context carrying the resolved session identity.
// The auth middleware installs it after validating the bearer token.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext resolves the current session identity, if any.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
