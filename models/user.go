package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
	RoleUser      UserRole = "user"
)

var UserRoles = []UserRole{RoleAdmin, RoleModerator, RoleUser}

func (r UserRole) Valid() bool {
	for _, role := range UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	Username           string    `json:"username" gorm:"size:30;uniqueIndex;not null"`
	FirstName          string    `json:"first_name" gorm:"size:50;not null"`
	LastName           string    `json:"last_name" gorm:"size:50;not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	Password           string    `json:"-" gorm:"not null"`
	Role               UserRole  `json:"role" gorm:"size:10;not null;default:'user';index"`
	IsStaff            bool      `json:"is_staff" gorm:"not null;default:false"`
	FlaggedForDeletion bool      `json:"flagged_for_deletion" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeSave keeps the staff flag in step with the role on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.IsStaff = u.Role == RoleAdmin
	return nil
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
