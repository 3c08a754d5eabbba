package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"jobza_backend/internal/logger"
	"jobza_backend/internal/services"
	"jobza_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService   services.AuthService
	googleService services.GoogleAuthService
	frontendURL   string
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, googleService services.GoogleAuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   base,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
	}
}

// RegisterRoutes регистрирует маршруты /auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/verify", h.VerifyEmail)
		auth.POST("/password/forgot", h.RequestPasswordReset)
		auth.POST("/password/reset", h.ResetPassword)
		auth.PUT("/password", h.RequireAuth(), h.ChangePassword)

		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Logout(h.GetDB(c), req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully logged out"})
}

// VerifyEmail - ссылка из письма, токен приходит в query
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.HandleServiceError(c, errMissingToken)
		return
	}

	if err := h.authService.VerifyEmail(h.GetDB(c), token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email successfully verified"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		logger.CtxWarn(c.Request.Context(), "Password reset request failed (hiding from user)",
			"error", err.Error(),
		)
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the email exists, a password reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(h.GetDB(c), req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password successfully reset"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(h.GetDB(c), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed"})
}

// GoogleLogin перенаправляет на экран согласия Google; ?role= задает роль нового аккаунта
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	authURL, err := h.googleService.AuthURL(c.Query("role"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback выдает токены. Если задан frontend URL, токены уходят туда во фрагменте.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	response, err := h.googleService.HandleCallback(c.Request.Context(), h.GetDB(c), c.Query("code"), c.Query("state"))
	if err != nil {
		if h.frontendURL != "" {
			logger.CtxWithError(c.Request.Context(), "google sign-in failed", err)
			c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback#error=google_sign_in_failed")
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	if h.frontendURL == "" {
		c.JSON(http.StatusOK, response)
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", response.AccessToken)
	fragment.Set("refresh_token", response.RefreshToken)
	fragment.Set("expires_in", strconv.FormatInt(response.ExpiresIn, 10))
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback#"+fragment.Encode())
}
