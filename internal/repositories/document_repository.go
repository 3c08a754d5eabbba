package repositories

import (
	"errors"
	"time"

	"jobza_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrDocumentAlreadyJudged = errors.New("document already judged")
)

type DocumentRepository interface {
	Create(db *gorm.DB, doc *models.Document) error
	FindByID(db *gorm.DB, id string) (*models.Document, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Document, error)
	FindByUserAndLabel(db *gorm.DB, userID string, label models.DocumentLabel) (*models.Document, error)
	FindPending(db *gorm.DB, page, pageSize int) ([]models.Document, int64, error)
	UpdateJudgment(db *gorm.DB, id string, status models.DocumentStatus, reason, reviewerID string) error
	Delete(db *gorm.DB, id string) error
	DeleteByUser(db *gorm.DB, userID string) error
}

type DocumentRepositoryImpl struct{}

func NewDocumentRepository() DocumentRepository {
	return &DocumentRepositoryImpl{}
}

func (r *DocumentRepositoryImpl) Create(db *gorm.DB, doc *models.Document) error {
	return db.Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Document, error) {
	var docs []models.Document
	err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) FindByUserAndLabel(db *gorm.DB, userID string, label models.DocumentLabel) (*models.Document, error) {
	var doc models.Document
	if err := db.Where("user_id = ? AND label = ?", userID, label).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindPending - очередь модерации, старые документы первыми
func (r *DocumentRepositoryImpl) FindPending(db *gorm.DB, page, pageSize int) ([]models.Document, int64, error) {
	var docs []models.Document
	var total int64

	query := db.Model(&models.Document{}).Where("status = ?", models.DocumentStatusPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.Order("created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&docs).Error

	return docs, total, err
}

// UpdateJudgment пишет решение только поверх pending-документа
func (r *DocumentRepositoryImpl) UpdateJudgment(db *gorm.DB, id string, status models.DocumentStatus, reason, reviewerID string) error {
	now := time.Now()
	result := db.Model(&models.Document{}).
		Where("id = ? AND status = ?", id, models.DocumentStatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"reviewed_by":      reviewerID,
			"reviewed_at":      now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Document{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrDocumentNotFound
		}
		return ErrDocumentAlreadyJudged
	}
	return nil
}

func (r *DocumentRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.Document{}).Error
}
