package models

import (
	"time"

	"gorm.io/gorm"
)

// Document types
const (
	DocTypeID        = "id"
	DocTypeStatement = "statement"
	DocTypeAgreement = "agreement"
	DocTypeOther     = "other"
)

// IsValidDocType reports whether docType is one of the known types
func IsValidDocType(docType string) bool {
	switch docType {
	case DocTypeID, DocTypeStatement, DocTypeAgreement, DocTypeOther:
		return true
	}
	return false
}

// Document is one immutable version of a logical document. Versions within a
// (investor, name, doc_type) group start at 1 and increase without gaps; the
// composite unique index rejects the loser of a concurrent upload race.
// PreviousVersionID is a backward link only, so the chain cannot cycle.
type Document struct {
	gorm.Model
	InvestorProfileID uint      `gorm:"not null;index;uniqueIndex:idx_document_group_version" json:"investorProfileId"`
	Name              string    `gorm:"size:255;not null;uniqueIndex:idx_document_group_version" json:"name"`
	DocType           string    `gorm:"size:50;not null;default:'other';uniqueIndex:idx_document_group_version" json:"docType"`
	Version           int       `gorm:"not null;default:1;uniqueIndex:idx_document_group_version" json:"version"`
	StorageKey        string    `gorm:"size:512;not null" json:"storageKey"`
	ContentType       string    `gorm:"size:100;default:''" json:"contentType"`
	Size              int64     `gorm:"default:0" json:"size"`
	UploadedAt        time.Time `gorm:"not null" json:"uploadedAt"`
	PreviousVersionID *uint     `json:"previousVersionId"`

	InvestorProfile InvestorProfile `gorm:"foreignKey:InvestorProfileID;constraint:OnDelete:CASCADE" json:"investor,omitempty"`
	PreviousVersion *Document       `gorm:"foreignKey:PreviousVersionID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
