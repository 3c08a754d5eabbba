package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/email"
	"jobza_backend/internal/logger"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const passwordResetTTL = time.Hour

// TokenSettings - параметры выпуска токенов и ссылок в письмах
type TokenSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	AppBaseURL string
	// FrontendURL - страница сброса пароля; пусто = AppBaseURL
	FrontendURL string
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	VerifyEmail(db *gorm.DB, token string) error
	RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error
	// LoginFederated находит или создает аккаунт, подтвержденный внешним провайдером
	LoginFederated(ctx context.Context, db *gorm.DB, email string, role models.UserRole) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
	tokens           TokenSettings
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	tokens TokenSettings,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
		tokens:           tokens,
	}
}

// Register создает аккаунт в статусе "not completed" вместе с пустым профилем роли
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	role := models.UserRole(req.Role)
	if !role.HasProfile() {
		return nil, apperrors.ErrInvalidUserRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	verificationToken, err := auth.GenerateToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		AuthMethod:        models.AuthMethodLocal,
		Role:              role,
		Status:            models.AccountStatusNotCompleted,
		VerificationToken: verificationToken,
	}

	err = runInTx(db, func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		_, err := s.profileRepo.CreateStub(tx, role, user.ID, user.Email)
		return err
	})
	if err != nil {
		return nil, handleAuthError(err)
	}

	s.sendVerification(ctx, user)

	return s.issueTokens(db, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if user.PasswordHash == "" && user.AuthMethod == models.AuthMethodGoogle {
		return nil, apperrors.ErrFederatedAccount
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(db, user)
}

// RefreshToken ротирует refresh-токен: старый удаляется
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	rt, err := s.refreshTokenRepo.FindValid(db, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.Delete(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, rt.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.refreshTokenRepo.Delete(db, refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	return handleAuthError(s.userRepo.VerifyUser(db, user.ID))
}

// RequestPasswordReset не сообщает, существует ли email
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(32)
	if err != nil {
		return apperrors.InternalError(err)
	}
	exp := time.Now().Add(passwordResetTTL)
	user.ResetToken = token
	user.ResetTokenExp = &exp

	if err := s.userRepo.Update(db, user); err != nil {
		return handleAuthError(err)
	}

	base := s.tokens.FrontendURL
	if base == "" {
		base = s.tokens.AppBaseURL
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", base, url.QueryEscape(token))
	if err := s.emailProvider.SendTemplate([]string{user.Email}, "Reset your Jobza password", email.TemplatePasswordReset, email.TemplateData{
		"Link":      link,
		"ExpiresIn": passwordResetTTL.String(),
	}); err != nil {
		logger.CtxWithError(ctx, "failed to send password reset email", err, "user_id", user.ID)
	}
	return nil
}

func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil

	return handleAuthError(runInTx(db, func(tx *gorm.DB) error {
		if err := s.userRepo.Update(tx, user); err != nil {
			return err
		}
		// после сброса пароля все сессии закрываются
		return s.refreshTokenRepo.DeleteByUser(tx, user.ID)
	}))
}

func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return handleAuthError(err)
	}
	if user.PasswordHash == "" {
		return apperrors.ErrFederatedAccount
	}
	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	return handleAuthError(s.userRepo.Update(db, user))
}

func (s *AuthServiceImpl) LoginFederated(ctx context.Context, db *gorm.DB, emailAddr string, role models.UserRole) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err == nil {
		if !user.IsVerified {
			if err := s.userRepo.VerifyUser(db, user.ID); err != nil {
				return nil, handleAuthError(err)
			}
			user.IsVerified = true
		}
		return s.issueTokens(db, user)
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if !role.HasProfile() {
		role = models.UserRoleWorker
	}
	user = &models.User{
		Email:      emailAddr,
		AuthMethod: models.AuthMethodGoogle,
		Role:       role,
		Status:     models.AccountStatusNotCompleted,
		IsVerified: true,
	}
	err = runInTx(db, func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		_, err := s.profileRepo.CreateStub(tx, role, user.ID, user.Email)
		return err
	})
	if err != nil {
		return nil, handleAuthError(err)
	}

	logger.CtxInfo(ctx, "federated account created", "user_id", user.ID, "role", role)
	return s.issueTokens(db, user)
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.SignJWT(s.tokens.Secret, user.ID, string(user.Role), s.tokens.AccessTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh, err := auth.GenerateToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.refreshTokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL.Seconds()),
		User:         dto.NewUserDTO(user),
	}, nil
}

func (s *AuthServiceImpl) sendVerification(ctx context.Context, user *models.User) {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.tokens.AppBaseURL, url.QueryEscape(user.VerificationToken))
	err := s.emailProvider.SendTemplate([]string{user.Email}, "Confirm your Jobza account", email.TemplateVerification, email.TemplateData{
		"Link": link,
	})
	if err != nil {
		// регистрация не откатывается из-за почты
		logger.CtxWithError(ctx, "failed to send verification email", err, "user_id", user.ID)
	}
}

func handleAuthError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
