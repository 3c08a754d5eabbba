package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"jobza_backend/internal/logger"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/internal/storage"
	"jobza_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UploadLimits - ограничения загрузки из конфига
type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
}

func (l UploadLimits) allows(contentType string) bool {
	if len(l.AllowedTypes) == 0 {
		return true
	}
	for _, t := range l.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

type DocumentService interface {
	Upload(ctx context.Context, db *gorm.DB, req *dto.UploadDocumentRequest) (*dto.DocumentUploadResponse, error)
	ListMine(db *gorm.DB, userID string) ([]models.Document, error)
	Delete(ctx context.Context, db *gorm.DB, userID, documentID string) (*dto.StatusResponse, error)
}

type DocumentServiceImpl struct {
	userRepo     repositories.UserRepository
	documentRepo repositories.DocumentRepository
	storage      storage.Storage
	statuses     *StatusDispatcher
	limits       UploadLimits
}

func NewDocumentService(
	userRepo repositories.UserRepository,
	documentRepo repositories.DocumentRepository,
	store storage.Storage,
	statuses *StatusDispatcher,
	limits UploadLimits,
) DocumentService {
	return &DocumentServiceImpl{
		userRepo:     userRepo,
		documentRepo: documentRepo,
		storage:      store,
		statuses:     statuses,
		limits:       limits,
	}
}

// Upload заменяет документ с той же меткой; подпись заменить нельзя
func (s *DocumentServiceImpl) Upload(ctx context.Context, db *gorm.DB, req *dto.UploadDocumentRequest) (*dto.DocumentUploadResponse, error) {
	label := models.DocumentLabel(req.Label)
	if !label.IsValid() {
		return nil, apperrors.ErrInvalidDocumentLabel
	}
	if s.limits.MaxSize > 0 && req.Size > s.limits.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	body, contentType, err := sniffContentType(req.File)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !s.limits.allows(contentType) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"content_type": contentType})
	}

	user, err := s.userRepo.FindByID(db, req.UserID)
	if err != nil {
		return nil, handleDocumentError(err)
	}
	engine, err := s.statuses.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}

	previous, err := s.documentRepo.FindByUserAndLabel(db, user.ID, label)
	if err != nil && !errors.Is(err, repositories.ErrDocumentNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if previous != nil && label.IsImmutable() {
		return nil, apperrors.ErrSignatureImmutable
	}

	key := storage.DocumentKey(user.ID, string(label), req.OriginalName)
	if err := s.storage.Save(ctx, key, body, contentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", http.StatusBadGateway)
	}

	doc := &models.Document{
		UserID:       user.ID,
		Label:        label,
		Status:       models.DocumentStatusPending,
		StorageKey:   key,
		URL:          s.storage.URL(key),
		MimeType:     contentType,
		Size:         req.Size,
		OriginalName: req.OriginalName,
		Metadata:     datatypes.JSON(`{"source":"upload"}`),
	}

	err = runInTx(db, func(tx *gorm.DB) error {
		if previous != nil {
			if err := s.documentRepo.Delete(tx, previous.ID); err != nil {
				return err
			}
		}
		if err := s.documentRepo.Create(tx, doc); err != nil {
			return err
		}
		if label == models.LabelSignature {
			return s.userRepo.SetSignatureUploaded(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		s.removeObject(ctx, key)
		return nil, handleDocumentError(err)
	}

	if previous != nil {
		s.removeObject(ctx, previous.StorageKey)
	}

	status, err := engine.HandleFileUpload(ctx, db, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentUploadResponse{Document: doc, Status: status}, nil
}

func (s *DocumentServiceImpl) ListMine(db *gorm.DB, userID string) ([]models.Document, error) {
	docs, err := s.documentRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

// Delete удаляет свой документ, пока он не рассмотрен
func (s *DocumentServiceImpl) Delete(ctx context.Context, db *gorm.DB, userID, documentID string) (*dto.StatusResponse, error) {
	doc, err := s.documentRepo.FindByID(db, documentID)
	if err != nil {
		return nil, handleDocumentError(err)
	}
	if doc.UserID != userID {
		return nil, apperrors.ErrDocumentNotFound
	}
	if doc.Label.IsImmutable() {
		return nil, apperrors.ErrSignatureImmutable
	}
	if doc.IsJudged() {
		return nil, apperrors.ErrDocumentAlreadyJudged
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleDocumentError(err)
	}
	engine, err := s.statuses.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.Delete(db, doc.ID); err != nil {
		return nil, handleDocumentError(err)
	}
	s.removeObject(ctx, doc.StorageKey)

	status, err := engine.AutoUpdateProfileStatus(ctx, db, userID, TriggerFileDeletion)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: status}, nil
}

// removeObject: потерянный файл в хранилище не ломает запрос
func (s *DocumentServiceImpl) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "failed to delete stored object", err, "key", key)
	}
}

// sniffContentType определяет тип по первым 512 байтам
func sniffContentType(r io.Reader) (io.Reader, string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return io.MultiReader(bytes.NewReader(head), r), contentType, nil
}

func handleDocumentError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrDocumentNotFound):
		return apperrors.ErrDocumentNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConflict(err, "document", "Document with this label already exists")
	}
	return apperrors.InternalError(err)
}
