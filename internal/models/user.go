package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ValidRole reports whether r is one of the roles the service accepts.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is an account keyed by email. Passwords are stored as bcrypt
// hashes; TempPasswordHash holds the one active recovery credential and
// is cleared on a successful password change. Accounts are never deleted.
type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	PasswordHash     string  `json:"-" gorm:"not null;size:100"`
	TempPasswordHash *string `json:"-" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasTempPassword reports whether a recovery credential is active.
func (u *User) HasTempPassword() bool {
	return u.TempPasswordHash != nil && *u.TempPasswordHash != ""
}
