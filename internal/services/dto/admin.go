package dto

import "jobza_backend/internal/models"

type AdminUserFilter struct {
	Role     string `form:"role" validate:"omitempty,is-user-role"`
	Status   string `form:"status" validate:"omitempty,is-account-status"`
	Search   string `form:"search" validate:"omitempty,max=255"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type AdminUserDetails struct {
	User         UserDTO              `json:"user"`
	Profile      interface{}          `json:"profile,omitempty"`
	Documents    []models.Document    `json:"documents"`
	Completeness *CompletenessDetails `json:"completeness,omitempty"`
}

type PlatformStats struct {
	TotalUsers int64                       `json:"total_users"`
	ByRole     map[string]int64            `json:"by_role"`
	ByStatus   map[string]int64            `json:"by_status"`
	Matrix     map[string]map[string]int64 `json:"by_role_and_status"`
}
