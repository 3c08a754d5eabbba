package dto

import (
	"io"

	"jobza_backend/internal/models"
)

// UploadDocumentRequest собирается хендлером из multipart формы
type UploadDocumentRequest struct {
	UserID       string
	Label        string `form:"label" validate:"required,is-document-label"`
	OriginalName string
	ContentType  string
	Size         int64
	File         io.Reader
}

type DocumentUploadResponse struct {
	Document *models.Document     `json:"document"`
	Status   models.AccountStatus `json:"status"`
}

type JudgeDocumentRequest struct {
	Status string `json:"status" validate:"required,is-judgment"`
	Reason string `json:"reason" validate:"max=1000"`
}

type JudgeDocumentResponse struct {
	Document      *models.Document     `json:"document"`
	ProfileStatus models.AccountStatus `json:"profile_status"`
}
