package models

import (
	"time"

	"gorm.io/datatypes"
)

type Document struct {
	BaseModel
	UserID          string         `gorm:"type:varchar(36);not null;uniqueIndex:uq_user_label" json:"user_id"`
	Label           DocumentLabel  `gorm:"type:varchar(50);not null;uniqueIndex:uq_user_label" json:"label"`
	Status          DocumentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	StorageKey      string         `gorm:"not null" json:"-"`
	URL             string         `json:"url"`
	MimeType        string         `json:"mime_type"`
	Size            int64          `json:"size"`
	OriginalName    string         `json:"original_name"`
	ReviewedBy      *string        `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	Metadata        datatypes.JSON `json:"metadata,omitempty"`
}

func (d *Document) IsJudged() bool {
	return d.Status == DocumentStatusApproved || d.Status == DocumentStatusRejected
}
