package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/dberrors"
	"github.com/yigit/pastquestions/internal/pkg/helpers"
	"github.com/yigit/pastquestions/internal/pkg/logger"
)

var pastQuestionColumns = []string{
	"pq.id::text", "pq.title", "pq.course_code", "pq.year", "pq.semester",
	"COALESCE(pq.description, '')", "pq.file_path", "pq.teacher_id::text",
	"pq.needs_cleanup", "pq.created_at", "pq.updated_at",
	"COALESCE(u.full_name, '') AS owner_name", "COALESCE(u.email, '') AS owner_email",
}

// PastQuestionRepository handles past question database operations
type PastQuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPastQuestionRepository creates a new PastQuestionRepository
func NewPastQuestionRepository(db *pgxpool.Pool) *PastQuestionRepository {
	return &PastQuestionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PastQuestionRepository) selectBase() squirrel.SelectBuilder {
	return r.sb.Select(pastQuestionColumns...).
		From("past_questions pq").
		LeftJoin("users u ON u.id = pq.teacher_id")
}

// buildListQuery returns the listing query: newest first, flagged rows
// excluded, optionally restricted to one owner.
func (r *PastQuestionRepository) buildListQuery(ownerID *string) (string, []interface{}, error) {
	q := r.selectBase().
		Where(squirrel.Eq{"pq.needs_cleanup": false}).
		OrderBy("pq.created_at DESC", "pq.id DESC")
	if ownerID != nil {
		q = q.Where(squirrel.Eq{"pq.teacher_id": *ownerID})
	}
	return q.ToSql()
}

func scanPastQuestion(row pgx.Row) (*models.PastQuestion, error) {
	var q models.PastQuestion
	err := row.Scan(
		&q.ID, &q.Title, &q.CourseCode, &q.Year, &q.Semester,
		&q.Description, &q.StorageKey, &q.OwnerID,
		&q.NeedsCleanup, &q.CreatedAt, &q.UpdatedAt,
		&q.OwnerName, &q.OwnerEmail,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a record and fills in the server-assigned fields
func (r *PastQuestionRepository) Create(ctx context.Context, q *models.PastQuestion) error {
	query := `
		INSERT INTO past_questions (title, course_code, year, semester, description, file_path, teacher_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		q.Title,
		q.CourseCode,
		q.Year,
		string(q.Semester),
		helpers.GetContentNullString(q.Description),
		q.StorageKey,
		q.OwnerID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "past_questions_file_path_key") {
			return fmt.Errorf("storage key %s already referenced: %w", q.StorageKey, apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Str("storageKey", q.StorageKey).Msg("Error creating past question")
		return fmt.Errorf("error creating past question: %w", err)
	}

	return nil
}

// GetByID retrieves a past question by ID
func (r *PastQuestionRepository) GetByID(ctx context.Context, id string) (*models.PastQuestion, error) {
	query, args, err := r.selectBase().Where(squirrel.Eq{"pq.id::text": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get past question query: %w", err)
	}

	q, err := scanPastQuestion(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPastQuestionNotFound
		}
		return nil, fmt.Errorf("error getting past question: %w", err)
	}
	return q, nil
}

// GetByStorageKey retrieves the past question that references a blob
func (r *PastQuestionRepository) GetByStorageKey(ctx context.Context, key string) (*models.PastQuestion, error) {
	query, args, err := r.selectBase().Where(squirrel.Eq{"pq.file_path": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get past question query: %w", err)
	}

	q, err := scanPastQuestion(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPastQuestionNotFound
		}
		return nil, fmt.Errorf("error getting past question by storage key: %w", err)
	}
	return q, nil
}

// List returns past questions newest first, optionally for a single owner
func (r *PastQuestionRepository) List(ctx context.Context, ownerID *string) ([]models.PastQuestion, error) {
	query, args, err := r.buildListQuery(ownerID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list past questions SQL")
		return nil, fmt.Errorf("failed to build list past questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list past questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.PastQuestion, 0)
	for rows.Next() {
		q, err := scanPastQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan past question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating past questions: %w", err)
	}

	return questions, nil
}

// Delete removes a past question record
func (r *PastQuestionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM past_questions WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting past question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPastQuestionNotFound
	}
	return nil
}

// MarkNeedsCleanup flags a record whose blob is already gone
func (r *PastQuestionRepository) MarkNeedsCleanup(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE past_questions SET needs_cleanup = TRUE, updated_at = NOW() WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("error flagging past question: %w", err)
	}
	return nil
}

// CountViews returns the number of view events per question id
func (r *PastQuestionRepository) CountViews(ctx context.Context, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	query, args, err := r.sb.Select("question_id::text", "COUNT(*)").
		From("student_views").
		Where(squirrel.Eq{"question_id::text": ids}).
		GroupBy("question_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count views query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			count int64
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan view count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}
