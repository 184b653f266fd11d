package dto

import (
	"time"

	"github.com/yigit/pastquestions/internal/app/models"
)

// PastQuestionFilterRequest holds the listing filters. Empty or "all" disables a filter.
type PastQuestionFilterRequest struct {
	Search   string `form:"search" example:"CSC"`
	Year     string `form:"year" example:"2023"`
	Semester string `form:"semester" example:"1st" enums:"all,1st,2nd"`
}

// PastQuestionResponse is one listed past question
type PastQuestionResponse struct {
	ID          string    `json:"id" example:"5f0c7a4e-3b1d-4c55-9a0e-1c2d3e4f5a6b"`
	Title       string    `json:"title" example:"Data Structures Final"`
	CourseCode  string    `json:"courseCode" example:"CSC201"`
	Year        int       `json:"year" example:"2023"`
	Semester    string    `json:"semester" example:"1st" enums:"1st,2nd"`
	Description string    `json:"description,omitempty"`
	StorageKey  string    `json:"storageKey" example:"5f0c7a4e-3b1d-4c55-9a0e-1c2d3e4f5a6b/1700000000000-0b9e.pdf"`
	OwnerID     string    `json:"ownerId"`
	OwnerName   string    `json:"ownerName,omitempty" example:"Ada Lovelace"`
	OwnerEmail  string    `json:"ownerEmail,omitempty" example:"ada@school.edu"`
	CreatedAt   time.Time `json:"createdAt"`
	IsNew       bool      `json:"isNew" example:"true"`
	ViewCount   *int64    `json:"viewCount,omitempty" example:"12"`
}

// PastQuestionListResponse is a filtered listing with the facets for its filter controls
type PastQuestionListResponse struct {
	Items []PastQuestionResponse `json:"items"`
	Total int                    `json:"total" example:"1"`
	Years []int                  `json:"years" example:"2024,2023"`
}

// DeletePastQuestionRequest carries the storage key that must match the record
type DeletePastQuestionRequest struct {
	Path string `form:"path" binding:"required"`
}

// NewPastQuestionResponse converts a model, stamping the derived isNew flag
func NewPastQuestionResponse(q *models.PastQuestion, isNew bool) PastQuestionResponse {
	return PastQuestionResponse{
		ID:          q.ID,
		Title:       q.Title,
		CourseCode:  q.CourseCode,
		Year:        q.Year,
		Semester:    string(q.Semester),
		Description: q.Description,
		StorageKey:  q.StorageKey,
		OwnerID:     q.OwnerID,
		OwnerName:   q.OwnerName,
		OwnerEmail:  q.OwnerEmail,
		CreatedAt:   q.CreatedAt,
		IsNew:       isNew,
	}
}
