package models

import "time"

type ConnectionRequest struct {
	BaseModel
	Kind         ConnectionKind   `gorm:"type:varchar(20);not null" json:"kind"`
	SenderID     string           `gorm:"type:varchar(36);not null;index" json:"sender_id"`
	SenderRole   UserRole         `gorm:"type:varchar(20);not null" json:"sender_role"`
	ReceiverID   string           `gorm:"type:varchar(36);not null;index" json:"receiver_id"`
	ReceiverRole UserRole         `gorm:"type:varchar(20);not null" json:"receiver_role"`
	Message      string           `gorm:"type:text" json:"message"`
	Status       ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RespondedAt  *time.Time       `json:"responded_at,omitempty"`
}
