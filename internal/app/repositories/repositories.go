package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	PastQuestionRepository *PastQuestionRepository
	ViewEventRepository    *ViewEventRepository
	CleanupRepository      *CleanupRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		PastQuestionRepository: NewPastQuestionRepository(db),
		ViewEventRepository:    NewViewEventRepository(db),
		CleanupRepository:      NewCleanupRepository(db),
	}
}
