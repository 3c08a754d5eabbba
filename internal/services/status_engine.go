package services

import (
	"context"
	"errors"
	"strings"

	"jobza_backend/internal/events"
	"jobza_backend/internal/lock"
	"jobza_backend/internal/logger"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Триггеры пересчета статуса (попадают в логи и события)
const (
	TriggerFileUpload    = "file_upload"
	TriggerFileRejection = "file_rejection"
	TriggerFileApproval  = "file_approval"
	TriggerFileDeletion  = "file_deletion"
	TriggerProfileUpdate = "profile_update"
	TriggerSkillsUpdate  = "skills_update"
	TriggerAdminReEval   = "admin_re_evaluate"
	TriggerAdminOverride = "admin_override"
	TriggerRegistration  = "registration"
)

// ProfileStatusEngine выводит статус аккаунта из профиля, документов и условия роли
type ProfileStatusEngine interface {
	Role() models.UserRole
	DetermineProfileStatus(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)
	UpdateProfileStatus(ctx context.Context, db *gorm.DB, userID string, status string) error
	AutoUpdateProfileStatus(ctx context.Context, db *gorm.DB, userID string, trigger string) (models.AccountStatus, error)

	HandleFileUpload(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)
	HandleFileRejection(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)
	HandleFileApproval(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)
	HandleProfileUpdate(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)
	HandleSkillsUpdate(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error)

	GetProfileCompletenessDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.CompletenessDetails, error)
}

// Узкие интерфейсы хранилищ, нужные движку

type statusAccountStore interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	UpdateStatus(db *gorm.DB, userID string, status models.AccountStatus) error
}

type statusProfileStore interface {
	FindByUserID(db *gorm.DB, role models.UserRole, userID string) (models.RoleProfile, error)
	CreateStub(db *gorm.DB, role models.UserRole, userID, email string) (models.RoleProfile, error)
}

type statusDocumentStore interface {
	FindByUser(db *gorm.DB, userID string) ([]models.Document, error)
}

type StatusEngineDeps struct {
	Accounts  statusAccountStore
	Profiles  statusProfileStore
	Documents statusDocumentStore
	Locker    lock.Locker
	Publisher events.Publisher
}

type StatusEngineImpl struct {
	role      models.UserRole
	rules     RoleRules
	accounts  statusAccountStore
	profiles  statusProfileStore
	documents statusDocumentStore
	locker    lock.Locker
	publisher events.Publisher
}

func NewStatusEngine(role models.UserRole, rules RoleRules, deps StatusEngineDeps) *StatusEngineImpl {
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &StatusEngineImpl{
		role:      role,
		rules:     rules,
		accounts:  deps.Accounts,
		profiles:  deps.Profiles,
		documents: deps.Documents,
		locker:    locker,
		publisher: publisher,
	}
}

func (e *StatusEngineImpl) Role() models.UserRole {
	return e.role
}

// evaluation - результат проверки профиля по правилам роли
type evaluation struct {
	missingFields    []string
	missingDocuments []string
	extraMet         bool
	hasRejected      bool
	allApproved      bool
}

func (ev evaluation) status() models.AccountStatus {
	if ev.hasRejected {
		return models.AccountStatusRejected
	}
	if len(ev.missingFields) > 0 || len(ev.missingDocuments) > 0 || !ev.extraMet {
		return models.AccountStatusNotCompleted
	}
	if ev.allApproved {
		return models.AccountStatusApproved
	}
	return models.AccountStatusPending
}

func (e *StatusEngineImpl) evaluate(profile models.RoleProfile, docs []models.Document) evaluation {
	ev := evaluation{
		missingFields:    []string{},
		missingDocuments: []string{},
	}

	fields := profile.PersonalFields()
	for _, name := range e.rules.RequiredPersonalFields {
		if strings.TrimSpace(fields[name]) == "" {
			ev.missingFields = append(ev.missingFields, name)
		}
	}

	byLabel := make(map[models.DocumentLabel]models.DocumentStatus, len(docs))
	for _, d := range docs {
		byLabel[d.Label] = d.Status
		if d.Status == models.DocumentStatusRejected {
			ev.hasRejected = true
		}
	}

	// пустой список обязательных документов не дает "все одобрены"
	ev.allApproved = len(e.rules.RequiredDocumentLabels) > 0
	for _, label := range e.rules.RequiredDocumentLabels {
		status, ok := byLabel[label]
		if !ok {
			ev.missingDocuments = append(ev.missingDocuments, string(label))
			ev.allApproved = false
			continue
		}
		if status != models.DocumentStatusApproved {
			ev.allApproved = false
		}
	}

	ev.extraMet = e.rules.extraConditionMet(profile)
	return ev
}

// loadProfile находит профиль роли, при отсутствии создает заглушку.
// Возвращает repositories.ErrUserNotFound, если нет самого аккаунта.
func (e *StatusEngineImpl) loadProfile(db *gorm.DB, userID string) (models.RoleProfile, error) {
	profile, err := e.profiles.FindByUserID(db, e.role, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, err
	}

	user, err := e.accounts.FindByID(db, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != e.role {
		return nil, apperrors.ErrInvalidUserRole
	}

	profile, err = e.profiles.CreateStub(db, e.role, userID, user.Email)
	if errors.Is(err, repositories.ErrProfileAlreadyExists) {
		// параллельный запрос успел создать профиль
		return e.profiles.FindByUserID(db, e.role, userID)
	}
	return profile, err
}

func (e *StatusEngineImpl) determine(db *gorm.DB, userID string) (evaluation, error) {
	profile, err := e.loadProfile(db, userID)
	if err != nil {
		return evaluation{}, err
	}

	docs, err := e.documents.FindByUser(db, userID)
	if err != nil {
		return evaluation{}, err
	}

	return e.evaluate(profile, docs), nil
}

// DetermineProfileStatus вычисляет статус без записи. Несуществующий аккаунт - "not completed" без ошибки.
func (e *StatusEngineImpl) DetermineProfileStatus(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	ev, err := e.determine(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.AccountStatusNotCompleted, nil
		}
		return "", handleStatusError(err)
	}
	return ev.status(), nil
}

// UpdateProfileStatus записывает статус без проверки переходов
func (e *StatusEngineImpl) UpdateProfileStatus(ctx context.Context, db *gorm.DB, userID string, status string) error {
	next := models.AccountStatus(status)
	if !next.IsValid() {
		return apperrors.ErrInvalidStatus("profile_status", "Unknown account status: "+status)
	}

	unlock, err := e.locker.Lock(ctx, lock.AccountKey(userID))
	if err != nil {
		return apperrors.InternalError(err)
	}
	defer unlock()

	user, err := e.accounts.FindByID(db, userID)
	if err != nil {
		return handleStatusError(err)
	}

	if err := e.accounts.UpdateStatus(db, userID, next); err != nil {
		return handleStatusError(err)
	}

	e.afterWrite(ctx, user, TriggerAdminOverride, next)
	return nil
}

// AutoUpdateProfileStatus пересчитывает и сохраняет статус под блокировкой аккаунта
func (e *StatusEngineImpl) AutoUpdateProfileStatus(ctx context.Context, db *gorm.DB, userID string, trigger string) (models.AccountStatus, error) {
	unlock, err := e.locker.Lock(ctx, lock.AccountKey(userID))
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer unlock()

	user, err := e.accounts.FindByID(db, userID)
	if err != nil {
		return "", handleStatusError(err)
	}
	if user.Role != e.role {
		return "", apperrors.ErrInvalidUserRole
	}

	ev, err := e.determine(db, userID)
	if err != nil {
		return "", handleStatusError(err)
	}
	next := ev.status()

	if next != user.Status {
		if err := e.accounts.UpdateStatus(db, userID, next); err != nil {
			return "", handleStatusError(err)
		}
	}

	e.afterWrite(ctx, user, trigger, next)
	return next, nil
}

// afterWrite логирует пересчет и публикует событие при смене статуса
func (e *StatusEngineImpl) afterWrite(ctx context.Context, user *models.User, trigger string, next models.AccountStatus) {
	logger.StatusLog(ctx, user.ID, string(user.Role), trigger, string(user.Status), string(next))

	if next == user.Status {
		return
	}

	evt := events.StatusChanged{
		Type:     events.TypeProfileStatusChanged,
		UserID:   user.ID,
		Role:     string(user.Role),
		Previous: string(user.Status),
		Current:  string(next),
		Trigger:  trigger,
	}
	// событие не должно откатывать уже записанный статус
	if err := e.publisher.PublishStatusChanged(ctx, evt); err != nil {
		logger.CtxWithError(ctx, "failed to publish status change", err, "user_id", user.ID)
	}
}

func (e *StatusEngineImpl) HandleFileUpload(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	return e.AutoUpdateProfileStatus(ctx, db, userID, TriggerFileUpload)
}

// HandleFileRejection проходит полный пересчет; отклоненный документ сам дает "rejected"
func (e *StatusEngineImpl) HandleFileRejection(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	return e.AutoUpdateProfileStatus(ctx, db, userID, TriggerFileRejection)
}

func (e *StatusEngineImpl) HandleFileApproval(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	return e.AutoUpdateProfileStatus(ctx, db, userID, TriggerFileApproval)
}

func (e *StatusEngineImpl) HandleProfileUpdate(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	return e.AutoUpdateProfileStatus(ctx, db, userID, TriggerProfileUpdate)
}

func (e *StatusEngineImpl) HandleSkillsUpdate(ctx context.Context, db *gorm.DB, userID string) (models.AccountStatus, error) {
	if e.role != models.UserRoleWorker {
		return "", apperrors.ErrSkillsNotSupported
	}
	return e.AutoUpdateProfileStatus(ctx, db, userID, TriggerSkillsUpdate)
}

// GetProfileCompletenessDetails - для отсутствующего аккаунта возвращает not-found
func (e *StatusEngineImpl) GetProfileCompletenessDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.CompletenessDetails, error) {
	user, err := e.accounts.FindByID(db, userID)
	if err != nil {
		return nil, handleStatusError(err)
	}
	if user.Role != e.role {
		return nil, apperrors.ErrInvalidUserRole
	}

	ev, err := e.determine(db, userID)
	if err != nil {
		return nil, handleStatusError(err)
	}

	return &dto.CompletenessDetails{
		Status:                ev.status(),
		PersonalInfoComplete:  len(ev.missingFields) == 0,
		DocumentsComplete:     len(ev.missingDocuments) == 0,
		ExtraConditionMet:     ev.extraMet,
		HasRejectedDocuments:  ev.hasRejected,
		AllDocumentsApproved:  ev.allApproved,
		MissingPersonalFields: ev.missingFields,
		MissingDocuments:      ev.missingDocuments,
	}, nil
}

func handleStatusError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return apperrors.ErrProfileNotFound
	}
	if errors.Is(err, repositories.ErrNoProfileForRole) {
		return apperrors.ErrUnknownRole
	}
	return apperrors.InternalError(err)
}
