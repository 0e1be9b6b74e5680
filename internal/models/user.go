package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	FirstName    string
	LastName     string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsStaff      bool   `gorm:"not null;default:false"`
	IsSuperuser  bool   `gorm:"not null;default:false"`

	// Bumped on every password change so outstanding JWTs stop verifying.
	TokenVersion uint `gorm:"not null;default:0"`

	// Relationships
	CreatedProjects []Project `gorm:"foreignKey:CreatedByID"`
	CreatedTasks    []Task    `gorm:"foreignKey:CreatedByID"`
	AssignedTasks   []Task    `gorm:"foreignKey:AssignedToID"`
	Comments        []Comment `gorm:"foreignKey:AuthorID"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
