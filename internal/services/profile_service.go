package services

import (
	"context"
	"errors"
	"strings"

	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetMyProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.StatusResponse, error)
	UpdateSkills(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateSkillsRequest) (*dto.StatusResponse, error)
	GetCompleteness(ctx context.Context, db *gorm.DB, userID string) (*dto.CompletenessDetails, error)

	SearchWorkers(db *gorm.DB, req *dto.WorkerSearchRequest) (*dto.PaginatedResponse, error)
	GetWorker(db *gorm.DB, userID string) (*dto.WorkerCard, error)
}

type ProfileServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	statuses    *StatusDispatcher
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	statuses *StatusDispatcher,
) ProfileService {
	return &ProfileServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		statuses:    statuses,
	}
}

func (s *ProfileServiceImpl) GetMyProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	resp := &dto.ProfileResponse{User: dto.NewUserDTO(user)}
	if !user.Role.HasProfile() {
		return resp, nil
	}

	profile, err := s.ensureProfile(db, user)
	if err != nil {
		return nil, handleProfileError(err)
	}
	resp.Profile = profile
	return resp, nil
}

// ensureProfile - ленивое создание профиля, как в движке статусов
func (s *ProfileServiceImpl) ensureProfile(db *gorm.DB, user *models.User) (models.RoleProfile, error) {
	profile, err := s.profileRepo.FindByUserID(db, user.Role, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, err
	}

	profile, err = s.profileRepo.CreateStub(db, user.Role, user.ID, user.Email)
	if errors.Is(err, repositories.ErrProfileAlreadyExists) {
		return s.profileRepo.FindByUserID(db, user.Role, user.ID)
	}
	return profile, err
}

func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.StatusResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	engine, err := s.statuses.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}

	if _, err := s.ensureProfile(db, user); err != nil {
		return nil, handleProfileError(err)
	}

	updates := commonProfileUpdates(req)
	switch user.Role {
	case models.UserRoleWorker:
		if req.Gender != nil {
			updates["gender"] = strings.ToLower(strings.TrimSpace(*req.Gender))
		}
		setIfPresent(updates, "religion", req.Religion)
		setIfPresent(updates, "marital_status", req.MaritalStatus)
		setIfPresent(updates, "bio", req.Bio)
		if req.DateOfBirth != nil {
			updates["date_of_birth"] = *req.DateOfBirth
		}
		if req.ExperienceYears != nil {
			updates["experience_years"] = *req.ExperienceYears
		}
		if req.ExpectedSalary != nil {
			updates["expected_salary"] = *req.ExpectedSalary
		}
		if req.Languages != nil {
			updates["languages"] = models.StringList(normalizeList(req.Languages))
		}
		err = s.profileRepo.UpdateWorker(db, userID, updates)
	case models.UserRoleEmployer:
		setIfPresent(updates, "city", req.City)
		setIfPresent(updates, "address", req.Address)
		if req.HouseholdSize != nil {
			updates["household_size"] = *req.HouseholdSize
		}
		err = s.profileRepo.UpdateEmployer(db, userID, updates)
	case models.UserRoleAgency:
		if req.Gender != nil {
			updates["gender"] = strings.ToLower(strings.TrimSpace(*req.Gender))
		}
		setIfPresent(updates, "address", req.Address)
		setIfPresent(updates, "license_number", req.LicenseNumber)
		setIfPresent(updates, "website", req.Website)
		err = s.profileRepo.UpdateAgency(db, userID, updates)
	}
	if err != nil {
		return nil, handleProfileError(err)
	}

	status, err := engine.HandleProfileUpdate(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: status}, nil
}

func (s *ProfileServiceImpl) UpdateSkills(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateSkillsRequest) (*dto.StatusResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	engine, err := s.statuses.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}
	if engine.Role() != models.UserRoleWorker {
		return nil, apperrors.ErrSkillsNotSupported
	}

	if _, err := s.ensureProfile(db, user); err != nil {
		return nil, handleProfileError(err)
	}
	if err := s.profileRepo.UpdateWorkerSkills(db, userID, normalizeList(req.Skills)); err != nil {
		return nil, handleProfileError(err)
	}

	status, err := engine.HandleSkillsUpdate(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: status}, nil
}

func (s *ProfileServiceImpl) GetCompleteness(ctx context.Context, db *gorm.DB, userID string) (*dto.CompletenessDetails, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	engine, err := s.statuses.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}
	return engine.GetProfileCompletenessDetails(ctx, db, userID)
}

// SearchWorkers показывает только одобренных работников
func (s *ProfileServiceImpl) SearchWorkers(db *gorm.DB, req *dto.WorkerSearchRequest) (*dto.PaginatedResponse, error) {
	profiles, total, err := s.profileRepo.SearchApprovedWorkers(db, repositories.WorkerSearchCriteria{
		Country:     strings.TrimSpace(req.Country),
		Nationality: strings.TrimSpace(req.Nationality),
		Skill:       strings.ToLower(strings.TrimSpace(req.Skill)),
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cards := make([]dto.WorkerCard, 0, len(profiles))
	for i := range profiles {
		cards = append(cards, dto.NewWorkerCard(&profiles[i]))
	}
	return dto.NewPaginatedResponse(cards, total, req.Page, req.PageSize), nil
}

func (s *ProfileServiceImpl) GetWorker(db *gorm.DB, userID string) (*dto.WorkerCard, error) {
	profile, err := s.profileRepo.FindApprovedWorker(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	card := dto.NewWorkerCard(profile)
	return &card, nil
}

func commonProfileUpdates(req *dto.UpdateProfileRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	setIfPresent(updates, "name", req.Name)
	setIfPresent(updates, "phone_number", req.PhoneNumber)
	setIfPresent(updates, "country", req.Country)
	setIfPresent(updates, "nationality", req.Nationality)
	return updates
}

func setIfPresent(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = strings.TrimSpace(*value)
	}
}

// normalizeList - trim, lower-case, без пустых и дублей
func normalizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func handleProfileError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrNoProfileForRole):
		return apperrors.ErrUnknownRole
	}
	return apperrors.InternalError(err)
}
