package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	ProjectID    uint   `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	Description  string
	IsCompleted  bool `gorm:"not null;default:false"`
	CreatedByID  uint `gorm:"not null"`
	AssignedToID *uint

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy  User      `gorm:"foreignKey:CreatedByID"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	Comments   []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
