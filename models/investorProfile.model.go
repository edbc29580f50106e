package models

import (
	"gorm.io/gorm"
)

// InvestorProfile is the one-to-one investor record attached to a user.
// MFASecret is present from the moment MFA setup starts; MFAEnabled only
// flips after the first code is verified.
type InvestorProfile struct {
	gorm.Model
	UserID      uint   `gorm:"not null;uniqueIndex" json:"userId"`
	PhoneNumber string `gorm:"size:20;default:''" json:"phoneNumber"`
	MFAEnabled  bool   `gorm:"default:false" json:"mfaEnabled"`
	MFASecret   string `gorm:"size:64" json:"-"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (InvestorProfile) TableName() string {
	return "investor_profiles"
}
