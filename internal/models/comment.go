package models

import "gorm.io/gorm"

// Comment is append-only: there is no update or delete endpoint.
type Comment struct {
	gorm.Model

	TaskID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null"`
	Text     string `gorm:"not null"`

	// Relationships
	Task   Task `gorm:"foreignKey:TaskID"`
	Author User `gorm:"foreignKey:AuthorID"`
}
