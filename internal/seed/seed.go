package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/app/repositories"
	"github.com/coordenaplus/backend/internal/config"
	"github.com/coordenaplus/backend/internal/pkg/apperrors"
	"github.com/coordenaplus/backend/internal/pkg/auth"
)

// CreateDefaultData seeds the first administrator account so someone can work
// the approval queue on a fresh install. An existing account is left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminPassword == "" {
		lgr.Warn().Msg("No seed admin password configured, skipping admin seed")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Str("email", cfg.Seed.AdminEmail).Msg("Seed admin already present")
		return nil
	}

	hashed, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
		Status:   models.AccountApproved,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		// Lost a race with a parallel boot; the account exists either way
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Seed admin account created")
	return nil
}
