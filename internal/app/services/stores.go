// Package services holds the portal workflows: upload, listing, download,
// delete, identity and the cleanup reconciler.
package services

import (
	"context"

	"github.com/yigit/pastquestions/internal/app/models"
)

// QuestionStore is the metadata store of past questions
type QuestionStore interface {
	Create(ctx context.Context, q *models.PastQuestion) error
	GetByID(ctx context.Context, id string) (*models.PastQuestion, error)
	GetByStorageKey(ctx context.Context, key string) (*models.PastQuestion, error)
	List(ctx context.Context, ownerID *string) ([]models.PastQuestion, error)
	Delete(ctx context.Context, id string) error
	MarkNeedsCleanup(ctx context.Context, id string) error
	CountViews(ctx context.Context, ids []string) (map[string]int64, error)
}

// ViewStore appends view events
type ViewStore interface {
	Create(ctx context.Context, event *models.ViewEvent) error
}

// CleanupStore is the ledger of inconsistencies left for the reconciler
type CleanupStore interface {
	Create(ctx context.Context, task *models.CleanupTask) error
	ListPending(ctx context.Context, limit int) ([]models.CleanupTask, error)
	MarkResolved(ctx context.Context, id int64) error
	RecordAttempt(ctx context.Context, id int64, reason string) error
}

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
