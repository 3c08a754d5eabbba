package handlers

import (
	"net/http"

	"jobza_backend/internal/models"
	"jobza_backend/internal/services"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
	maxSize         int64
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService, maxSize int64) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
		maxSize:         maxSize,
	}
}

func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/documents/labels", h.ListLabels)

	docs := r.Group("/documents")
	docs.Use(h.RequireAuth())
	{
		docs.POST("", h.Upload)
		docs.GET("", h.ListMine)
		docs.DELETE("/:id", h.Delete)
	}
}

func (h *DocumentHandler) ListLabels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"labels": models.DocumentLabels})
}

// Upload - multipart: поле "label" и файл "file"
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if h.maxSize > 0 {
		// запас на заголовки multipart
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, errMissingFile)
		return
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	req := dto.UploadDocumentRequest{
		UserID:       userID,
		Label:        c.PostForm("label"),
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		File:         file,
	}
	if !h.validate(c, &req) {
		return
	}

	resp, err := h.documentService.Upload(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.documentService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
