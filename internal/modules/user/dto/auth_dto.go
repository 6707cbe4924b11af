package dto

import (
	"io"

	"henryedu.com/henryplatform/internal/entity"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`

	Institution *string `json:"institution"`
	Department  *string `json:"department"`
	StudentID   *string `json:"student_id"`
	Semester    *string `json:"semester"`
	Career      *string `json:"career"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

// UpdateProfileInput covers the self-service profile fields. Role and
// is_active deliberately absent; those ride on AdminUpdateUserInput.
type UpdateProfileInput struct {
	FullName    *string `json:"full_name"`
	Institution *string `json:"institution"`
	Department  *string `json:"department"`
	StudentID   *string `json:"student_id"`
	Semester    *string `json:"semester"`
	Career      *string `json:"career"`
	AvatarURL   *string `json:"avatar_url"`
}

type AdminUpdateUserInput struct {
	UpdateProfileInput
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type DemoAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}
