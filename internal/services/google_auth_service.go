package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobza_backend/internal/auth"
	"jobza_backend/internal/models"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL     = 10 * time.Minute
)

type GoogleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

type GoogleAuthService interface {
	Enabled() bool
	// AuthURL возвращает ссылку на согласие Google; роль уходит в подписанный state
	AuthURL(role string) (string, error)
	HandleCallback(ctx context.Context, db *gorm.DB, code, state string) (*dto.AuthResponse, error)
}

type GoogleAuthServiceImpl struct {
	oauth       *oauth2.Config
	stateSecret []byte
	authService AuthService
	// fetchUser подменяется в тестах
	fetchUser func(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error)
}

func NewGoogleAuthService(clientID, clientSecret, redirectURL, stateSecret string, authService AuthService) GoogleAuthService {
	s := &GoogleAuthServiceImpl{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		stateSecret: []byte(stateSecret),
		authService: authService,
	}
	s.fetchUser = s.fetchGoogleUser
	return s
}

func (s *GoogleAuthServiceImpl) Enabled() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

func (s *GoogleAuthServiceImpl) AuthURL(role string) (string, error) {
	if !s.Enabled() {
		return "", apperrors.ErrInvalidOperation("auth", "Google sign-in is not configured")
	}
	if role == "" {
		role = string(models.UserRoleWorker)
	}
	if !models.UserRole(role).HasProfile() {
		return "", apperrors.ErrInvalidUserRole
	}

	state, err := s.signState(role, time.Now())
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (s *GoogleAuthServiceImpl) HandleCallback(ctx context.Context, db *gorm.DB, code, state string) (*dto.AuthResponse, error) {
	if code == "" || state == "" {
		return nil, apperrors.NewBadRequestError("Missing code or state")
	}
	role, err := s.verifyState(state, time.Now())
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to exchange authorization code")
	}

	info, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "auth", "Failed to fetch Google profile", http.StatusBadGateway)
	}
	emailAddr := strings.ToLower(strings.TrimSpace(info.Email))
	if emailAddr == "" || !info.VerifiedEmail {
		return nil, apperrors.NewBadRequestError("Google account has no verified email")
	}

	return s.authService.LoginFederated(ctx, db, emailAddr, models.UserRole(role))
}

func (s *GoogleAuthServiceImpl) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := s.oauth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// state = base64(role|unix|nonce) + "." + base64(hmac)
func (s *GoogleAuthServiceImpl) signState(role string, now time.Time) (string, error) {
	nonce, err := auth.GenerateToken(12)
	if err != nil {
		return "", err
	}
	payload := strings.Join([]string{role, strconv.FormatInt(now.Unix(), 10), nonce}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + s.mac(payload), nil
}

func (s *GoogleAuthServiceImpl) verifyState(state string, now time.Time) (string, error) {
	encoded, sig, ok := strings.Cut(state, ".")
	if !ok {
		return "", fmt.Errorf("malformed state")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	payload := string(raw)
	if !hmac.Equal([]byte(sig), []byte(s.mac(payload))) {
		return "", fmt.Errorf("state signature mismatch")
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed state payload")
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", err
	}
	if now.Sub(time.Unix(issued, 0)) > oauthStateTTL {
		return "", fmt.Errorf("state expired")
	}
	return parts[0], nil
}

func (s *GoogleAuthServiceImpl) mac(payload string) string {
	h := hmac.New(sha256.New, s.stateSecret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
