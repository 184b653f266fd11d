package dto

import (
	"time"

	"github.com/yigit/pastquestions/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	RoleType string `json:"roleType" binding:"required,oneof=STUDENT TEACHER" enums:"STUDENT,TEACHER"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
}

// UserResponse represents public user information
type UserResponse struct {
	ID          string     `json:"id" example:"5f0c7a4e-3b1d-4c55-9a0e-1c2d3e4f5a6b"`
	Email       string     `json:"email" example:"teacher@school.edu"`
	FullName    string     `json:"fullName" example:"Ada Lovelace"`
	RoleType    string     `json:"roleType" example:"TEACHER" enums:"STUDENT,TEACHER"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse converts a user model to its public shape
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		RoleType:    string(u.RoleType),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
