package models

import (
	"gorm.io/gorm"
)

// Audit actions
const (
	ActionUpload      = "UPLOAD"
	ActionDownload    = "DOWNLOAD"
	ActionViewHistory = "VIEW_HISTORY"
	ActionLogin       = "LOGIN"
	ActionMFAEnabled  = "MFA_ENABLED"
	ActionMFADisabled = "MFA_DISABLED"
)

// AuditLog is append-only. UserID is nullable so entries survive user
// deletion. CreatedAt is the action timestamp.
type AuditLog struct {
	gorm.Model
	UserID  *uint  `gorm:"index" json:"userId"`
	Action  string `gorm:"size:255;not null;index" json:"action"`
	Details string `gorm:"type:text" json:"details"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
