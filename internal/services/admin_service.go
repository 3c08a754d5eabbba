package services

import (
	"context"
	"errors"
	"strings"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/email"
	"jobza_backend/internal/logger"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/internal/storage"
	"jobza_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminService - модерация. Все изменения статусов идут через ForRole.
type AdminService interface {
	ForRole(role string) (ProfileStatusEngine, error)

	ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.PaginatedResponse, error)
	GetUserDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserDetails, error)
	ListPendingDocuments(db *gorm.DB, page, pageSize int) (*dto.PaginatedResponse, error)
	JudgeDocument(ctx context.Context, db *gorm.DB, adminID, documentID string, req *dto.JudgeDocumentRequest) (*dto.JudgeDocumentResponse, error)
	OverrideStatus(ctx context.Context, db *gorm.DB, actorID string, actorRole models.UserRole, userID, status string) (*dto.StatusResponse, error)
	ReEvaluate(ctx context.Context, db *gorm.DB, userID string) (*dto.StatusResponse, error)
	GetStats(db *gorm.DB) (*dto.PlatformStats, error)

	// superadmin
	CreateAdmin(db *gorm.DB, req *dto.CreateAdminRequest) (*dto.UserDTO, error)
	ListAdmins(db *gorm.DB) ([]dto.UserDTO, error)
	DeleteUser(ctx context.Context, db *gorm.DB, actorID string, actorRole models.UserRole, userID string) error
}

type AdminServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	documentRepo     repositories.DocumentRepository
	connectionRepo   repositories.ConnectionRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	storage          storage.Storage
	emailProvider    email.Provider
	statuses         *StatusDispatcher
}

func NewAdminService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	documentRepo repositories.DocumentRepository,
	connectionRepo repositories.ConnectionRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	store storage.Storage,
	emailProvider email.Provider,
	statuses *StatusDispatcher,
) AdminService {
	return &AdminServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		documentRepo:     documentRepo,
		connectionRepo:   connectionRepo,
		refreshTokenRepo: refreshTokenRepo,
		storage:          store,
		emailProvider:    emailProvider,
		statuses:         statuses,
	}
}

func (s *AdminServiceImpl) ForRole(role string) (ProfileStatusEngine, error) {
	return s.statuses.ForRole(role)
}

func (s *AdminServiceImpl) ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.PaginatedResponse, error) {
	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     models.UserRole(filter.Role),
		Status:   models.AccountStatus(filter.Status),
		Search:   strings.TrimSpace(filter.Search),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserDTO(&users[i]))
	}
	return dto.NewPaginatedResponse(items, total, filter.Page, filter.PageSize), nil
}

func (s *AdminServiceImpl) GetUserDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserDetails, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}

	docs, err := s.documentRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	details := &dto.AdminUserDetails{
		User:      dto.NewUserDTO(user),
		Documents: docs,
	}

	engine, err := s.ForRole(string(user.Role))
	if err != nil {
		// у админов нет профиля
		return details, nil
	}

	completeness, err := engine.GetProfileCompletenessDetails(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	details.Completeness = completeness

	profile, err := s.profileRepo.FindByUserID(db, user.Role, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	details.Profile = profile
	return details, nil
}

func (s *AdminServiceImpl) ListPendingDocuments(db *gorm.DB, page, pageSize int) (*dto.PaginatedResponse, error) {
	docs, total, err := s.documentRepo.FindPending(db, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(docs, total, page, pageSize), nil
}

// JudgeDocument сохраняет решение, пересчитывает статус владельца и уведомляет его письмом
func (s *AdminServiceImpl) JudgeDocument(ctx context.Context, db *gorm.DB, adminID, documentID string, req *dto.JudgeDocumentRequest) (*dto.JudgeDocumentResponse, error) {
	verdict := models.DocumentStatus(req.Status)
	if verdict != models.DocumentStatusApproved && verdict != models.DocumentStatusRejected {
		return nil, apperrors.ErrInvalidStatus("document", "Judgment must be approved or rejected")
	}
	reason := strings.TrimSpace(req.Reason)
	if verdict == models.DocumentStatusRejected && reason == "" {
		return nil, apperrors.ErrRejectionReasonRequired
	}
	if verdict == models.DocumentStatusApproved {
		reason = ""
	}

	doc, err := s.documentRepo.FindByID(db, documentID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	if doc.IsJudged() {
		return nil, apperrors.ErrDocumentAlreadyJudged
	}

	owner, err := s.userRepo.FindByID(db, doc.UserID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	engine, err := s.ForRole(string(owner.Role))
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.UpdateJudgment(db, doc.ID, verdict, reason, adminID); err != nil {
		return nil, handleAdminError(err)
	}

	var status models.AccountStatus
	if verdict == models.DocumentStatusApproved {
		status, err = engine.HandleFileApproval(ctx, db, owner.ID)
	} else {
		status, err = engine.HandleFileRejection(ctx, db, owner.ID)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.documentRepo.FindByID(db, doc.ID)
	if err != nil {
		return nil, handleAdminError(err)
	}

	if err := s.emailProvider.SendTemplate([]string{owner.Email}, "Your Jobza document was reviewed", email.TemplateDocumentJudged, email.TemplateData{
		"Label":         string(doc.Label),
		"Status":        string(verdict),
		"Reason":        reason,
		"ProfileStatus": string(status),
	}); err != nil {
		logger.CtxWithError(ctx, "failed to send judgment email", err, "user_id", owner.ID, "document_id", doc.ID)
	}

	logger.CtxInfo(ctx, "document judged",
		"document_id", doc.ID,
		"admin_id", adminID,
		"verdict", verdict,
		"profile_status", status,
	)

	return &dto.JudgeDocumentResponse{Document: updated, ProfileStatus: status}, nil
}

// OverrideStatus - ручная смена статуса, без проверки переходов
func (s *AdminServiceImpl) OverrideStatus(ctx context.Context, db *gorm.DB, actorID string, actorRole models.UserRole, userID, status string) (*dto.StatusResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	if user.ID == actorID {
		return nil, apperrors.ErrCannotModifySelf
	}
	if !auth.CanManage(actorRole, actorID, user) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	engine, err := s.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := engine.UpdateProfileStatus(ctx, db, userID, status); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "account status overridden", "user_id", userID, "admin_id", actorID, "status", status)
	return &dto.StatusResponse{Status: models.AccountStatus(status)}, nil
}

func (s *AdminServiceImpl) ReEvaluate(ctx context.Context, db *gorm.DB, userID string) (*dto.StatusResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	engine, err := s.ForRole(string(user.Role))
	if err != nil {
		return nil, err
	}

	status, err := engine.AutoUpdateProfileStatus(ctx, db, userID, TriggerAdminReEval)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: status}, nil
}

func (s *AdminServiceImpl) GetStats(db *gorm.DB) (*dto.PlatformStats, error) {
	rows, err := s.userRepo.CountByRoleAndStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.PlatformStats{
		ByRole:   make(map[string]int64),
		ByStatus: make(map[string]int64),
		Matrix:   make(map[string]map[string]int64),
	}
	for _, row := range rows {
		role, status := string(row.Role), string(row.Status)
		stats.TotalUsers += row.Count
		stats.ByRole[role] += row.Count
		stats.ByStatus[status] += row.Count
		if stats.Matrix[role] == nil {
			stats.Matrix[role] = make(map[string]int64)
		}
		stats.Matrix[role][status] += row.Count
	}
	return stats, nil
}

func (s *AdminServiceImpl) CreateAdmin(db *gorm.DB, req *dto.CreateAdminRequest) (*dto.UserDTO, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// у админов нет профиля, статус для них не вычисляется
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		AuthMethod:   models.AuthMethodLocal,
		Role:         models.UserRoleAdmin,
		Status:       models.AccountStatusApproved,
		IsVerified:   true,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, handleAdminError(err)
	}

	out := dto.NewUserDTO(user)
	return &out, nil
}

func (s *AdminServiceImpl) ListAdmins(db *gorm.DB) ([]dto.UserDTO, error) {
	out := []dto.UserDTO{}
	for _, role := range []models.UserRole{models.UserRoleSuperAdmin, models.UserRoleAdmin} {
		users, err := s.userRepo.FindByRole(db, role)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for i := range users {
			out = append(out, dto.NewUserDTO(&users[i]))
		}
	}
	return out, nil
}

// DeleteUser удаляет аккаунт со всеми данными и файлами
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, actorID string, actorRole models.UserRole, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return handleAdminError(err)
	}
	if user.ID == actorID {
		return apperrors.ErrCannotModifySelf
	}
	if !auth.CanManage(actorRole, actorID, user) {
		return apperrors.ErrInsufficientPermissions
	}

	docs, err := s.documentRepo.FindByUser(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = runInTx(db, func(tx *gorm.DB) error {
		if err := s.documentRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		if err := s.connectionRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		if err := s.refreshTokenRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		if user.Role.HasProfile() {
			if err := s.profileRepo.DeleteByUserID(tx, user.Role, userID); err != nil {
				return err
			}
		}
		return s.userRepo.Delete(tx, userID)
	})
	if err != nil {
		return handleAdminError(err)
	}

	for _, d := range docs {
		if err := s.storage.Delete(ctx, d.StorageKey); err != nil {
			logger.CtxWithError(ctx, "failed to delete stored object", err, "key", d.StorageKey)
		}
	}

	logger.CtxInfo(ctx, "user deleted", "user_id", userID, "actor_id", actorID)
	return nil
}

func handleAdminError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrDocumentNotFound):
		return apperrors.ErrDocumentNotFound
	case errors.Is(err, repositories.ErrDocumentAlreadyJudged):
		return apperrors.ErrDocumentAlreadyJudged
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	}
	return apperrors.InternalError(err)
}
