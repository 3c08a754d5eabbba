package dto

import (
	"time"

	"jobza_backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,is-signup-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"`
	User         UserDTO `json:"user"`
}

type UserDTO struct {
	ID                string               `json:"id"`
	Email             string               `json:"email"`
	Role              models.UserRole      `json:"role"`
	Status            models.AccountStatus `json:"status"`
	AuthMethod        models.AuthMethod    `json:"auth_method"`
	IsVerified        bool                 `json:"is_verified"`
	SignatureUploaded bool                 `json:"signature_uploaded"`
	CreatedAt         time.Time            `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		Role:              u.Role,
		Status:            u.Status,
		AuthMethod:        u.AuthMethod,
		IsVerified:        u.IsVerified,
		SignatureUploaded: u.SignatureUploaded,
		CreatedAt:         u.CreatedAt,
	}
}
