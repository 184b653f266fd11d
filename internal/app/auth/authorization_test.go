package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := s[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func newTestAuthz() *AuthorizationService {
	return NewAuthorizationService(stubUsers{
		"t1": {ID: "t1", RoleType: models.RoleTeacher},
		"s1": {ID: "s1", RoleType: models.RoleStudent},
	})
}

func TestValidateTeacher(t *testing.T) {
	authz := newTestAuthz()
	ctx := context.Background()

	require.NoError(t, authz.ValidateTeacher(ctx, "t1"))
	assert.ErrorIs(t, authz.ValidateTeacher(ctx, "s1"), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, authz.ValidateTeacher(ctx, "nobody"), apperrors.ErrResourceNotFound)

	err := authz.ValidateTeacher(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestValidatePastQuestionOwnership(t *testing.T) {
	authz := newTestAuthz()
	q := &models.PastQuestion{ID: "q1", OwnerID: "t1"}

	assert.NoError(t, authz.ValidatePastQuestionOwnership(q, "t1"))
	assert.ErrorIs(t, authz.ValidatePastQuestionOwnership(q, "t2"), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, authz.ValidatePastQuestionOwnership(q, ""), apperrors.ErrPermissionDenied)
	assert.False(t, authz.CanModifyPastQuestion(nil, "t1"))
}
