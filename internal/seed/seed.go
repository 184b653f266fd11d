package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/config"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/auth"
)

// UserWriter is the subset of the user repository the seeder needs
type UserWriter interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

// CreateDefaultData creates a demo teacher account if it does not exist yet.
func CreateDefaultData(ctx context.Context, users UserWriter, cfg *config.Config, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.TeacherEmail))
	if email == "" || cfg.Seed.TeacherPassword == "" {
		lgr.Warn().Msg("Seeding enabled but teacher credentials are empty, skipping")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		lgr.Info().Str("email", email).Msg("Default teacher already exists, skipping creation")
		return nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return fmt.Errorf("checking default teacher: %w", err)
	}

	hashed, err := auth.HashPassword(cfg.Seed.TeacherPassword)
	if err != nil {
		return fmt.Errorf("hashing default teacher password: %w", err)
	}

	teacher := &appModels.User{
		Email:    email,
		Password: hashed,
		FullName: "Demo Teacher",
		RoleType: appModels.RoleTeacher,
	}
	if err := users.Create(ctx, teacher); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil
		}
		return fmt.Errorf("creating default teacher: %w", err)
	}

	lgr.Info().Str("userID", teacher.ID).Str("email", email).Msg("Default teacher created")
	return nil
}
