package dto

import (
	"time"

	"jobza_backend/internal/models"
)

// UpdateProfileRequest - общий запрос для всех ролей; поля чужой роли игнорируются.
// nil означает "не менять".
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	Gender      *string `json:"gender" validate:"omitempty,is-gender"`

	// worker
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Religion        *string    `json:"religion" validate:"omitempty,max=100"`
	MaritalStatus   *string    `json:"marital_status" validate:"omitempty,max=50"`
	ExperienceYears *int       `json:"experience_years" validate:"omitempty,min=0,max=60"`
	ExpectedSalary  *float64   `json:"expected_salary" validate:"omitempty,min=0"`
	Bio             *string    `json:"bio" validate:"omitempty,max=2000"`
	Languages       []string   `json:"languages" validate:"omitempty,max=20,dive,max=50"`

	// employer
	City          *string `json:"city" validate:"omitempty,max=100"`
	HouseholdSize *int    `json:"household_size" validate:"omitempty,min=0,max=50"`

	// employer / agency
	Address *string `json:"address" validate:"omitempty,max=500"`

	// agency
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=100"`
	Website       *string `json:"website" validate:"omitempty,url"`
}

type UpdateSkillsRequest struct {
	Skills []string `json:"skills" validate:"max=50,dive,required,max=50"`
}

type ProfileResponse struct {
	User    UserDTO     `json:"user"`
	Profile interface{} `json:"profile"`
}

// StatusResponse возвращается после любого изменения, влияющего на статус
type StatusResponse struct {
	Status models.AccountStatus `json:"status"`
}

// CompletenessDetails - разбор того, почему профиль в текущем статусе
type CompletenessDetails struct {
	Status                models.AccountStatus `json:"status"`
	PersonalInfoComplete  bool                 `json:"personal_info_complete"`
	DocumentsComplete     bool                 `json:"documents_complete"`
	ExtraConditionMet     bool                 `json:"extra_condition_met"`
	HasRejectedDocuments  bool                 `json:"has_rejected_documents"`
	AllDocumentsApproved  bool                 `json:"all_documents_approved"`
	MissingPersonalFields []string             `json:"missing_personal_fields"`
	MissingDocuments      []string             `json:"missing_documents"`
}

type WorkerSearchRequest struct {
	Country     string `form:"country" validate:"omitempty,max=100"`
	Nationality string `form:"nationality" validate:"omitempty,max=100"`
	Skill       string `form:"skill" validate:"omitempty,max=50"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// WorkerCard - публичное представление одобренного работника
type WorkerCard struct {
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Country         string    `json:"country"`
	Nationality     string    `json:"nationality"`
	Gender          string    `json:"gender"`
	ExperienceYears int       `json:"experience_years"`
	ExpectedSalary  float64   `json:"expected_salary"`
	Languages       []string  `json:"languages"`
	Skills          []string  `json:"skills"`
	Bio             string    `json:"bio"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewWorkerCard(p *models.WorkerProfile) WorkerCard {
	return WorkerCard{
		UserID:          p.UserID,
		Name:            p.Name,
		Country:         p.Country,
		Nationality:     p.Nationality,
		Gender:          p.Gender,
		ExperienceYears: p.ExperienceYears,
		ExpectedSalary:  p.ExpectedSalary,
		Languages:       p.Languages,
		Skills:          p.Skills(),
		Bio:             p.Bio,
		UpdatedAt:       p.UpdatedAt,
	}
}
