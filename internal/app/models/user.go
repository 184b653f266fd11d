package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          string     `json:"id" db:"id" example:"5f0c7a4e-3b1d-4c55-9a0e-1c2d3e4f5a6b"` // Opaque identifier (UUID)
	Email       string     `json:"email" db:"email" example:"teacher@school.edu"`
	Password    string     `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FullName    string     `json:"fullName" db:"full_name" example:"Ada Lovelace"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"TEACHER"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
