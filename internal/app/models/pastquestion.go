package models

import "time"

// Semester is the half of the academic year an exam belongs to
type Semester string

// Semester constants
const (
	SemesterFirst  Semester = "1st"
	SemesterSecond Semester = "2nd"
)

// Valid reports whether s is one of the known semesters
func (s Semester) Valid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// PastQuestion is the metadata of one uploaded exam file ('past_questions' table).
// StorageKey and OwnerID never change after creation.
type PastQuestion struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	CourseCode   string    `json:"courseCode" db:"course_code"`
	Year         int       `json:"year" db:"year"`
	Semester     Semester  `json:"semester" db:"semester"`
	Description  string    `json:"description,omitempty" db:"description"`
	StorageKey   string    `json:"storageKey" db:"file_path"`
	OwnerID      string    `json:"ownerId" db:"teacher_id"`
	NeedsCleanup bool      `json:"-" db:"needs_cleanup"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Joined, read-only
	OwnerName  string `json:"ownerName,omitempty" db:"owner_name"`
	OwnerEmail string `json:"ownerEmail,omitempty" db:"owner_email"`
}

// ViewEvent records one student download of a past question ('student_views' table).
// Rows are append-only.
type ViewEvent struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  string    `json:"studentId" db:"student_id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
