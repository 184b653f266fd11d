package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/pastquestions/internal/app/models"
)

// CleanupRepository stores the ledger of blob/record pairs awaiting repair
type CleanupRepository struct {
	db *pgxpool.Pool
}

// NewCleanupRepository creates a new CleanupRepository
func NewCleanupRepository(db *pgxpool.Pool) *CleanupRepository {
	return &CleanupRepository{db: db}
}

// Create records a new cleanup task
func (r *CleanupRepository) Create(ctx context.Context, task *models.CleanupTask) error {
	query := `
		INSERT INTO cleanup_tasks (kind, storage_key, question_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		string(task.Kind),
		task.StorageKey,
		task.QuestionID,
		task.Reason,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating cleanup task: %w", err)
	}
	return nil
}

// ListPending returns unresolved tasks, oldest first
func (r *CleanupRepository) ListPending(ctx context.Context, limit int) ([]models.CleanupTask, error) {
	query := `
		SELECT id, kind, storage_key, question_id::text, reason, attempts, created_at, resolved_at
		FROM cleanup_tasks
		WHERE resolved_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cleanup tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.CleanupTask, 0)
	for rows.Next() {
		var t models.CleanupTask
		if err := rows.Scan(&t.ID, &t.Kind, &t.StorageKey, &t.QuestionID, &t.Reason, &t.Attempts, &t.CreatedAt, &t.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cleanup task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkResolved closes a task
func (r *CleanupRepository) MarkResolved(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE cleanup_tasks SET resolved_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error resolving cleanup task: %w", err)
	}
	return nil
}

// RecordAttempt bumps the attempt counter and stores the latest failure
func (r *CleanupRepository) RecordAttempt(ctx context.Context, id int64, reason string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE cleanup_tasks SET attempts = attempts + 1, reason = $2 WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("error updating cleanup task: %w", err)
	}
	return nil
}
