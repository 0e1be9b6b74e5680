package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	CreatedByID uint `gorm:"not null;index"`

	// Relationships
	CreatedBy User   `gorm:"foreignKey:CreatedByID"`
	Managers  []User `gorm:"many2many:project_managers"`
	Users     []User `gorm:"many2many:project_users"`
	Tasks     []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// GetAllMembers returns the union of the manager and user sets. A user that
// appears in both sets is returned once.
func (p *Project) GetAllMembers() []User {
	seen := make(map[uint]bool, len(p.Managers)+len(p.Users))
	members := make([]User, 0, len(p.Managers)+len(p.Users))

	for _, u := range p.Managers {
		if !seen[u.ID] {
			seen[u.ID] = true
			members = append(members, u)
		}
	}

	for _, u := range p.Users {
		if !seen[u.ID] {
			seen[u.ID] = true
			members = append(members, u)
		}
	}

	return members
}

// IsMember reports whether the user is in the project's managers or users set.
// The creator is not implicitly a member.
func (p *Project) IsMember(userID uint) bool {
	for _, u := range p.Managers {
		if u.ID == userID {
			return true
		}
	}

	for _, u := range p.Users {
		if u.ID == userID {
			return true
		}
	}

	return false
}
