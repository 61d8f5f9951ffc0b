package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/kaan/counseldesk/internal/app/models"
	appRepos "github.com/kaan/counseldesk/internal/app/repositories"
	"github.com/kaan/counseldesk/internal/config"
	"github.com/kaan/counseldesk/internal/pkg/apperrors"
	"github.com/kaan/counseldesk/internal/pkg/auth"
)

// CreateDefaultData ensures the default admin account exists. Registration
// only issues counselor and student roles, so without this seed there would
// be no admin at all.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin password not configured, skipping admin seed")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, cfg.Admin.Email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing admin account")
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Name:         cfg.Admin.Name,
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         appModels.RoleAdmin,
	}

	if _, err := userRepo.CreateUser(ctx, admin); err != nil {
		// A concurrent boot may have created the account in the meantime.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}

	lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	return nil
}
