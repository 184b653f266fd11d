// Package auth holds the role and ownership checks shared by the workflows.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/logger"
)

// UserLookup resolves users by id
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	users UserLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserLookup) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// IsTeacher checks if the user is a teacher
func (s *AuthorizationService) IsTeacher(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.RoleType == models.RoleTeacher, nil
}

// ValidateTeacher returns a forbidden error unless the user is a teacher
func (s *AuthorizationService) ValidateTeacher(ctx context.Context, userID string) error {
	isTeacher, err := s.IsTeacher(ctx, userID)
	if err != nil {
		return err
	}
	if !isTeacher {
		return apperrors.NewForbiddenError("only teachers can perform this action")
	}
	return nil
}

// CanModifyPastQuestion reports whether userID owns the record
func (s *AuthorizationService) CanModifyPastQuestion(q *models.PastQuestion, userID string) bool {
	return q != nil && userID != "" && q.OwnerID == userID
}

// ValidatePastQuestionOwnership returns a forbidden error unless userID owns the record
func (s *AuthorizationService) ValidatePastQuestionOwnership(q *models.PastQuestion, userID string) error {
	if !s.CanModifyPastQuestion(q, userID) {
		return apperrors.NewForbiddenError("you can only delete your own past questions")
	}
	return nil
}

// GetUserInfo returns user information
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	return user, nil
}
