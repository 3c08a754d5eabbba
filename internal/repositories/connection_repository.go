package repositories

import (
	"errors"
	"time"

	"jobza_backend/internal/models"

	"gorm.io/gorm"
)

var ErrConnectionNotFound = errors.New("connection request not found")

type ConnectionRepository interface {
	Create(db *gorm.DB, req *models.ConnectionRequest) error
	FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error)
	HasPendingBetween(db *gorm.DB, userA, userB string) (bool, error)
	FindForUser(db *gorm.DB, filter ConnectionFilter) ([]models.ConnectionRequest, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.ConnectionStatus) error
	DeleteByUser(db *gorm.DB, userID string) error
}

type ConnectionFilter struct {
	UserID    string
	Direction string // sent | received | "" (both)
	Status    models.ConnectionStatus
	Page      int
	PageSize  int
}

type ConnectionRepositoryImpl struct{}

func NewConnectionRepository() ConnectionRepository {
	return &ConnectionRepositoryImpl{}
}

func (r *ConnectionRepositoryImpl) Create(db *gorm.DB, req *models.ConnectionRequest) error {
	return db.Create(req).Error
}

func (r *ConnectionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &req, nil
}

// HasPendingBetween проверяет ожидающий запрос в любом направлении
func (r *ConnectionRepositoryImpl) HasPendingBetween(db *gorm.DB, userA, userB string) (bool, error) {
	var count int64
	err := db.Model(&models.ConnectionRequest{}).
		Where("status = ?", models.ConnectionStatusPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *ConnectionRepositoryImpl) FindForUser(db *gorm.DB, filter ConnectionFilter) ([]models.ConnectionRequest, int64, error) {
	var reqs []models.ConnectionRequest
	var total int64

	query := db.Model(&models.ConnectionRequest{})
	switch filter.Direction {
	case "sent":
		query = query.Where("sender_id = ?", filter.UserID)
	case "received":
		query = query.Where("receiver_id = ?", filter.UserID)
	default:
		query = query.Where("sender_id = ? OR receiver_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reqs).Error

	return reqs, total, err
}

// UpdateStatus меняет статус только у ожидающего запроса
func (r *ConnectionRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ConnectionStatus) error {
	now := time.Now()
	result := db.Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func (r *ConnectionRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.ConnectionRequest{}).Error
}
