package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/repositories"
	"github.com/polycampus/backend/internal/config"
	"github.com/polycampus/backend/internal/pkg/apperrors"
	"github.com/polycampus/backend/internal/pkg/auth"
)

// CreateDefaultData seeds the admin-console account from config and grants it
// the admin capability. Seeding is idempotent: an existing account keeps its
// password and only has the role re-asserted.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		lgr.Info().Msg("No admin password configured, skipping admin seed")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	user, err := userRepo.GetByEmail(ctx, cfg.Admin.Email)
	switch {
	case err == nil:
		// Account exists, only re-assert the role below.
	case errors.Is(err, apperrors.ErrUserNotFound):
		hash, hashErr := auth.HashPassword(cfg.Admin.Password)
		if hashErr != nil {
			return fmt.Errorf("failed to hash admin password: %w", hashErr)
		}

		id, createErr := userRepo.Create(ctx, cfg.Admin.Email, hash)
		if createErr != nil {
			return fmt.Errorf("failed to create admin user: %w", createErr)
		}

		lgr.Info().Str("email", cfg.Admin.Email).Msg("Created admin user")
		user = &models.User{ID: id, Email: cfg.Admin.Email}
	default:
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	if err := userRepo.AssignRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	return nil
}
