package services

import (
	"context"
	"errors"
	"strings"

	"jobza_backend/internal/logger"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ConnectionService interface {
	Create(ctx context.Context, db *gorm.DB, senderID string, req *dto.CreateConnectionRequest) (*models.ConnectionRequest, error)
	List(db *gorm.DB, userID string, req *dto.ConnectionListRequest) (*dto.PaginatedResponse, error)
	Accept(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error)
	Reject(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error)
	Cancel(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error)
}

type ConnectionServiceImpl struct {
	userRepo       repositories.UserRepository
	connectionRepo repositories.ConnectionRepository
}

func NewConnectionService(userRepo repositories.UserRepository, connectionRepo repositories.ConnectionRepository) ConnectionService {
	return &ConnectionServiceImpl{
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
	}
}

// connectionKind: employer -> worker = employment, worker <-> agency = affiliation
func connectionKind(sender, receiver models.UserRole) (models.ConnectionKind, bool) {
	switch {
	case sender == models.UserRoleEmployer && receiver == models.UserRoleWorker:
		return models.ConnectionKindEmployment, true
	case sender == models.UserRoleWorker && receiver == models.UserRoleAgency,
		sender == models.UserRoleAgency && receiver == models.UserRoleWorker:
		return models.ConnectionKindAffiliation, true
	}
	return "", false
}

func (s *ConnectionServiceImpl) Create(ctx context.Context, db *gorm.DB, senderID string, req *dto.CreateConnectionRequest) (*models.ConnectionRequest, error) {
	if senderID == req.ReceiverID {
		return nil, apperrors.ErrInvalidConnectionPair
	}

	sender, err := s.userRepo.FindByID(db, senderID)
	if err != nil {
		return nil, handleConnectionError(err)
	}
	receiver, err := s.userRepo.FindByID(db, req.ReceiverID)
	if err != nil {
		return nil, handleConnectionError(err)
	}

	kind, ok := connectionKind(sender.Role, receiver.Role)
	if !ok {
		return nil, apperrors.ErrInvalidConnectionPair
	}
	if sender.Status == models.AccountStatusRejected {
		return nil, apperrors.ErrAccountRejected
	}

	worker := receiver
	if sender.Role == models.UserRoleWorker {
		worker = sender
	}
	if worker.Status != models.AccountStatusApproved {
		return nil, apperrors.ErrWorkerNotApproved
	}

	pending, err := s.connectionRepo.HasPendingBetween(db, sender.ID, receiver.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if pending {
		return nil, apperrors.ErrConnectionAlreadyPending
	}

	conn := &models.ConnectionRequest{
		Kind:         kind,
		SenderID:     sender.ID,
		SenderRole:   sender.Role,
		ReceiverID:   receiver.ID,
		ReceiverRole: receiver.Role,
		Message:      strings.TrimSpace(req.Message),
		Status:       models.ConnectionStatusPending,
	}
	if err := s.connectionRepo.Create(db, conn); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "connection request created", "id", conn.ID, "kind", kind, "sender_id", sender.ID, "receiver_id", receiver.ID)
	return conn, nil
}

func (s *ConnectionServiceImpl) List(db *gorm.DB, userID string, req *dto.ConnectionListRequest) (*dto.PaginatedResponse, error) {
	reqs, total, err := s.connectionRepo.FindForUser(db, repositories.ConnectionFilter{
		UserID:    userID,
		Direction: req.Direction,
		Status:    models.ConnectionStatus(req.Status),
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(reqs, total, req.Page, req.PageSize), nil
}

func (s *ConnectionServiceImpl) Accept(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error) {
	return s.transition(ctx, db, userID, requestID, false, models.ConnectionStatusAccepted)
}

func (s *ConnectionServiceImpl) Reject(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error) {
	return s.transition(ctx, db, userID, requestID, false, models.ConnectionStatusRejected)
}

func (s *ConnectionServiceImpl) Cancel(ctx context.Context, db *gorm.DB, userID, requestID string) (*models.ConnectionRequest, error) {
	return s.transition(ctx, db, userID, requestID, true, models.ConnectionStatusCancelled)
}

// transition: принять/отклонить может получатель, отменить - отправитель; только из pending
func (s *ConnectionServiceImpl) transition(ctx context.Context, db *gorm.DB, userID, requestID string, bySender bool, next models.ConnectionStatus) (*models.ConnectionRequest, error) {
	conn, err := s.connectionRepo.FindByID(db, requestID)
	if err != nil {
		return nil, handleConnectionError(err)
	}

	owner := conn.ReceiverID
	if bySender {
		owner = conn.SenderID
	}
	if owner != userID {
		// чужие запросы не раскрываем
		return nil, apperrors.ErrConnectionNotFound
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, apperrors.ErrConnectionNotPending
	}

	if err := s.connectionRepo.UpdateStatus(db, conn.ID, next); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return nil, apperrors.ErrConnectionNotPending
		}
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.connectionRepo.FindByID(db, conn.ID)
	if err != nil {
		return nil, handleConnectionError(err)
	}

	logger.CtxInfo(ctx, "connection request updated", "id", conn.ID, "status", next, "user_id", userID)
	return updated, nil
}

func handleConnectionError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrConnectionNotFound):
		return apperrors.ErrConnectionNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
