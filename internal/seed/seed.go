package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appModels "github.com/eldenheights/ehsas/internal/app/models"
	appRepos "github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/auth"
	"github.com/eldenheights/ehsas/internal/pkg/validation"
)

// EnsureAdminAccount creates the configured admin account if it does not
// exist. An empty email or password skips seeding.
func EnsureAdminAccount(ctx context.Context, admins appRepos.AdminRepository, email, password string, lgr zerolog.Logger) error {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		lgr.Info().Msg("No admin credentials configured, skipping admin seed")
		return nil
	}

	_, err := admins.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Str("email", email).Msg("Admin account already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         appModels.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := admins.Create(ctx, admin); err != nil {
		// another instance may have seeded it first
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
