package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Role                string     `gorm:"default:'USER'" json:"role"` // USER, ADMIN
	Password            string     `gorm:"not null" json:"password,omitempty"`
	LastLogin           time.Time  `gorm:"default:NULL" json:"lastLogin"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}

// IsStaff reports whether the user holds the elevated role
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
