package repositories

import (
	"errors"
	"fmt"
	"strings"

	"jobza_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
	ErrNoProfileForRole     = errors.New("role has no profile")
)

type ProfileRepository interface {
	// По роли - используется движком статусов
	FindByUserID(db *gorm.DB, role models.UserRole, userID string) (models.RoleProfile, error)
	CreateStub(db *gorm.DB, role models.UserRole, userID, email string) (models.RoleProfile, error)
	DeleteByUserID(db *gorm.DB, role models.UserRole, userID string) error

	FindWorkerByUserID(db *gorm.DB, userID string) (*models.WorkerProfile, error)
	UpdateWorker(db *gorm.DB, userID string, updates map[string]interface{}) error
	UpdateWorkerSkills(db *gorm.DB, userID string, skills []string) error
	SearchApprovedWorkers(db *gorm.DB, criteria WorkerSearchCriteria) ([]models.WorkerProfile, int64, error)
	FindApprovedWorker(db *gorm.DB, userID string) (*models.WorkerProfile, error)

	FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error)
	UpdateEmployer(db *gorm.DB, userID string, updates map[string]interface{}) error

	FindAgencyByUserID(db *gorm.DB, userID string) (*models.AgencyProfile, error)
	UpdateAgency(db *gorm.DB, userID string, updates map[string]interface{}) error
}

type WorkerSearchCriteria struct {
	Country     string
	Nationality string
	Skill       string
	Page        int
	PageSize    int
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

// newProfile возвращает пустую модель профиля для роли
func newProfile(role models.UserRole) (models.RoleProfile, error) {
	switch role {
	case models.UserRoleWorker:
		return &models.WorkerProfile{}, nil
	case models.UserRoleEmployer:
		return &models.EmployerProfile{}, nil
	case models.UserRoleAgency:
		return &models.AgencyProfile{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoProfileForRole, role)
	}
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, role models.UserRole, userID string) (models.RoleProfile, error) {
	profile, err := newProfile(role)
	if err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).First(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CreateStub создает минимальный профиль (user_id + email)
func (r *ProfileRepositoryImpl) CreateStub(db *gorm.DB, role models.UserRole, userID, email string) (models.RoleProfile, error) {
	var profile models.RoleProfile
	switch role {
	case models.UserRoleWorker:
		profile = &models.WorkerProfile{UserID: userID, Email: email}
	case models.UserRoleEmployer:
		profile = &models.EmployerProfile{UserID: userID, Email: email}
	case models.UserRoleAgency:
		profile = &models.AgencyProfile{UserID: userID, Email: email}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoProfileForRole, role)
	}

	if err := db.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileAlreadyExists
		}
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepositoryImpl) DeleteByUserID(db *gorm.DB, role models.UserRole, userID string) error {
	profile, err := newProfile(role)
	if err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(profile).Error
}

// Worker

func (r *ProfileRepositoryImpl) FindWorkerByUserID(db *gorm.DB, userID string) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateWorker(db *gorm.DB, userID string, updates map[string]interface{}) error {
	return r.update(db, &models.WorkerProfile{}, userID, updates)
}

func (r *ProfileRepositoryImpl) UpdateWorkerSkills(db *gorm.DB, userID string, skills []string) error {
	return r.update(db, &models.WorkerProfile{}, userID, map[string]interface{}{
		"skill_set": models.StringList(skills),
	})
}

func (r *ProfileRepositoryImpl) approvedWorkers(db *gorm.DB) *gorm.DB {
	return db.Model(&models.WorkerProfile{}).
		Joins("JOIN users ON users.id = worker_profiles.user_id").
		Where("users.role = ? AND users.status = ?", models.UserRoleWorker, models.AccountStatusApproved)
}

func (r *ProfileRepositoryImpl) SearchApprovedWorkers(db *gorm.DB, criteria WorkerSearchCriteria) ([]models.WorkerProfile, int64, error) {
	var profiles []models.WorkerProfile
	var total int64

	query := r.approvedWorkers(db)
	if criteria.Country != "" {
		query = query.Where("LOWER(worker_profiles.country) = ?", strings.ToLower(criteria.Country))
	}
	if criteria.Nationality != "" {
		query = query.Where("LOWER(worker_profiles.nationality) = ?", strings.ToLower(criteria.Nationality))
	}
	if criteria.Skill != "" {
		query = whereHasSkill(query, criteria.Skill)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)
	err := query.Select("worker_profiles.*").
		Order("worker_profiles.updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&profiles).Error

	return profiles, total, err
}

// whereHasSkill: в mysql навыки лежат литералом {"a","b"}, поэтому ищем по границам элементов
func whereHasSkill(query *gorm.DB, skill string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		return query.Where("? = ANY(worker_profiles.skill_set)", skill)
	}
	elem := `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(skill) + `"`
	return query.Where(
		"worker_profiles.skill_set LIKE ? OR worker_profiles.skill_set LIKE ? OR worker_profiles.skill_set LIKE ? OR worker_profiles.skill_set = ?",
		"{"+elem+",%", "%,"+elem+",%", "%,"+elem+"}", "{"+elem+"}",
	)
}

func (r *ProfileRepositoryImpl) FindApprovedWorker(db *gorm.DB, userID string) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	err := r.approvedWorkers(db).
		Select("worker_profiles.*").
		Where("worker_profiles.user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Employer

func (r *ProfileRepositoryImpl) FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	var profile models.EmployerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateEmployer(db *gorm.DB, userID string, updates map[string]interface{}) error {
	return r.update(db, &models.EmployerProfile{}, userID, updates)
}

// Agency

func (r *ProfileRepositoryImpl) FindAgencyByUserID(db *gorm.DB, userID string) (*models.AgencyProfile, error) {
	var profile models.AgencyProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateAgency(db *gorm.DB, userID string, updates map[string]interface{}) error {
	return r.update(db, &models.AgencyProfile{}, userID, updates)
}

func (r *ProfileRepositoryImpl) update(db *gorm.DB, model interface{}, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := db.Model(model).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
