package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"jobza_backend/internal/middleware"
	"jobza_backend/internal/storage"
	"jobza_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const signedURLTTL = 15 * time.Minute

// FileHandler отдает загруженные документы. Документы личные: доступ есть у владельца и у модераторов.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, storage storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	files.Use(h.RequireAuth())
	{
		files.GET("/*key", h.ServeFile)
		files.HEAD("/*key", h.CheckFileExists)
	}
	r.GET("/file-links/*key", h.RequireAuth(), h.GetSignedURL)
}

// canAccess: ключ документа имеет вид documents/<userID>/...
func canAccess(c *gin.Context, key string) bool {
	if middleware.GetRole(c).IsStaff() {
		return true
	}
	userID := middleware.GetUserID(c)
	return userID != "" && strings.HasPrefix(key, path.Join("documents", userID)+"/")
}

func (h *FileHandler) objectKey(c *gin.Context) (string, bool) {
	key := strings.TrimPrefix(path.Clean("/"+c.Param("key")), "/")
	if key == "" || key == "." {
		apperrors.HandleError(c, apperrors.NewNotFoundError("File not found"))
		return "", false
	}
	if !canAccess(c, key) {
		apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied"))
		return "", false
	}
	return key, true
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key, ok := h.objectKey(c)
	if !ok {
		return
	}

	reader, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			apperrors.HandleError(c, apperrors.NewNotFoundError("File not found in storage"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=300")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		_ = c.Error(err)
	}
}

func (h *FileHandler) CheckFileExists(c *gin.Context) {
	key, ok := h.objectKey(c)
	if !ok {
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// GetSignedURL - временная ссылка (для S3/R2 - presigned URL)
func (h *FileHandler) GetSignedURL(c *gin.Context) {
	key, ok := h.objectKey(c)
	if !ok {
		return
	}

	url, err := h.storage.SignedURL(c.Request.Context(), key, signedURLTTL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int(signedURLTTL.Seconds()),
	})
}
