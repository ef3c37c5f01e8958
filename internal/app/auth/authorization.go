package auth

import (
	"context"

	"github.com/polycampus/backend/internal/app/models"
)

// RoleChecker resolves role membership for a user. Implemented by the user
// repository's single role-check query.
type RoleChecker interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}

// AuthorizationService resolves the current identity and its capabilities.
// It is the sole authorization checkpoint in front of content mutations;
// repositories trust their callers.
type AuthorizationService struct {
	roles RoleChecker
}

// NewAuthorizationService creates a new authorization service.
func NewAuthorizationService(roles RoleChecker) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// Identity returns the session identity carried by ctx, if any.
func (s *AuthorizationService) Identity(ctx context.Context) (models.Identity, bool) {
	return IdentityFromContext(ctx)
}

// HasCapability reports whether the identity holds the named capability.
func (s *AuthorizationService) HasCapability(ctx context.Context, identity models.Identity, capability string) (bool, error) {
	return s.roles.HasRole(ctx, identity.UserID, capability)
}
