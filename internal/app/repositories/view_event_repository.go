package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/pastquestions/internal/app/models"
)

// ViewEventRepository appends student view events
type ViewEventRepository struct {
	db *pgxpool.Pool
}

// NewViewEventRepository creates a new ViewEventRepository
func NewViewEventRepository(db *pgxpool.Pool) *ViewEventRepository {
	return &ViewEventRepository{db: db}
}

// Create appends a view event. created_at is assigned by the database.
func (r *ViewEventRepository) Create(ctx context.Context, event *models.ViewEvent) error {
	query := `
		INSERT INTO student_views (student_id, question_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.db.QueryRow(ctx, query, event.StudentID, event.QuestionID).Scan(&event.ID, &event.CreatedAt); err != nil {
		return fmt.Errorf("error recording view: %w", err)
	}
	return nil
}
