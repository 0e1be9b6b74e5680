package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordReset is a single-use reset token. Expired or used rows are kept
// for auditing; validity is checked on consumption.
type PasswordReset struct {
	gorm.Model

	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
