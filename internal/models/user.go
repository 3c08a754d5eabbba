package models

import "time"

type User struct {
	BaseModel
	Email             string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash      string        `json:"-"`
	AuthMethod        AuthMethod    `gorm:"type:varchar(20);not null;default:'local'" json:"auth_method"`
	Role              UserRole      `gorm:"type:varchar(20);not null;index" json:"role"`
	Status            AccountStatus `gorm:"type:varchar(20);not null;default:'not completed';index" json:"status"`
	IsVerified        bool          `gorm:"default:false" json:"is_verified"`
	SignatureUploaded bool          `gorm:"default:false" json:"signature_uploaded"`
	VerificationToken string        `gorm:"index" json:"-"`
	ResetToken        string        `gorm:"index" json:"-"`
	ResetTokenExp     *time.Time    `json:"-"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
