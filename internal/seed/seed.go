package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/campora/campora/internal/app/models"
	appRepos "github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/auth"
)

const (
	defaultTenantCode = "MAIN"
	defaultTenantName = "Main Campus"
	defaultAdminEmail = "admin@campora.app"
)

// CreateDefaultData ensures a tenant and its platform admin exist so a fresh
// install can be logged into. Existing rows are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	tenantRepo := appRepos.NewTenantRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (tenant and admin user)...")

	tenant, err := tenantRepo.GetByCode(ctx, defaultTenantCode)
	if errors.Is(err, apperrors.ErrTenantNotFound) {
		tenant = &appModels.Tenant{
			Name:     defaultTenantName,
			Code:     defaultTenantCode,
			IsActive: true,
		}
		if err := tenantRepo.Create(ctx, tenant); err != nil {
			lgr.Error().Err(err).Msg("Error creating default tenant")
			return err
		}
		lgr.Info().Str("code", defaultTenantCode).Int64("tenantId", tenant.ID).Msg("Default tenant created")
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error looking up default tenant")
		return err
	}

	if _, err := userRepo.GetByEmail(ctx, tenant.ID, defaultAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error looking up default admin user")
		return err
	}

	password := os.Getenv("ADMIN_INITIAL_PASSWORD")
	if password == "" {
		password = "changeme"
		lgr.Warn().Msg("ADMIN_INITIAL_PASSWORD not set, using the default password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		TenantID:  tenant.ID,
		Email:     defaultAdminEmail,
		Password:  hash,
		FirstName: "Platform",
		LastName:  "Admin",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin user created")
	return nil
}
