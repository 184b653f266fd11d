package models

import "time"

// CleanupKind names the inconsistency a cleanup task repairs
type CleanupKind string

const (
	// CleanupOrphanBlob is a blob whose metadata record was never written
	CleanupOrphanBlob CleanupKind = "orphan_blob"
	// CleanupDanglingRecord is a record whose blob is already gone
	CleanupDanglingRecord CleanupKind = "dangling_record"
)

// CleanupTask is a ledger entry for a blob/record pair that could not be
// made consistent inline ('cleanup_tasks' table).
type CleanupTask struct {
	ID         int64       `json:"id" db:"id"`
	Kind       CleanupKind `json:"kind" db:"kind"`
	StorageKey string      `json:"storageKey" db:"storage_key"`
	QuestionID *string     `json:"questionId,omitempty" db:"question_id"`
	Reason     string      `json:"reason" db:"reason"`
	Attempts   int         `json:"attempts" db:"attempts"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
	ResolvedAt *time.Time  `json:"resolvedAt,omitempty" db:"resolved_at"`
}
