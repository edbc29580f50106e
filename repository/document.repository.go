package repository

import (
	"errors"
	"strings"

	"secureinvestor/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessScope decides which documents a requester may see: staff see all,
// everyone else only their own profile's documents. It is threaded through
// every document query instead of branching per call site.
type AccessScope struct {
	staff     bool
	profileID uint
}

func StaffScope() AccessScope {
	return AccessScope{staff: true}
}

func OwnerScope(profileID uint) AccessScope {
	return AccessScope{profileID: profileID}
}

// Apply narrows a document query to the scope
func (s AccessScope) Apply(db *gorm.DB) *gorm.DB {
	if s.staff {
		return db
	}
	return db.Where("documents.investor_profile_id = ?", s.profileID)
}

// ScopeForUser resolves the access scope for a user. Non-staff users without
// an investor profile get a scope that matches nothing (profile id 0).
func ScopeForUser(db *gorm.DB, user *models.User) AccessScope {
	if user.IsStaff() {
		return StaffScope()
	}
	var profile models.InvestorProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return OwnerScope(0)
	}
	return OwnerScope(profile.ID)
}

// NextVersion computes the next version number and the previous-version row
// for a (profile, name, docType) group. Must run inside the same transaction
// as the insert; on Postgres the current latest row is locked FOR UPDATE so
// concurrent uploads to the same group serialize. The composite unique index
// on the group plus version catches anything that slips past the lock.
func NextVersion(tx *gorm.DB, profileID uint, name, docType string) (int, *models.Document, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var latest models.Document
	err := query.
		Where("investor_profile_id = ? AND name = ? AND doc_type = ?", profileID, name, docType).
		Order("version DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil, nil
		}
		return 0, nil, err
	}

	return latest.Version + 1, &latest, nil
}

// LatestPerGroup returns the highest-versioned document of every accessible
// (profile, name, docType) group in one grouped-aggregation query. docType
// narrows to a single type when non-empty.
func LatestPerGroup(db *gorm.DB, scope AccessScope, docType string) ([]models.Document, error) {
	sub := scope.Apply(db.Model(&models.Document{})).
		Select("investor_profile_id, name, doc_type, MAX(version) AS max_version").
		Group("investor_profile_id, name, doc_type")
	if docType != "" {
		sub = sub.Where("documents.doc_type = ?", docType)
	}

	var docs []models.Document
	err := db.Model(&models.Document{}).
		Joins("JOIN (?) latest ON documents.investor_profile_id = latest.investor_profile_id"+
			" AND documents.name = latest.name"+
			" AND documents.doc_type = latest.doc_type"+
			" AND documents.version = latest.max_version", sub).
		Order("documents.uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

// AllVersions returns every accessible document, newest upload first
func AllVersions(db *gorm.DB, scope AccessScope, docType string) ([]models.Document, error) {
	query := scope.Apply(db.Model(&models.Document{}))
	if docType != "" {
		query = query.Where("documents.doc_type = ?", docType)
	}

	var docs []models.Document
	err := query.Order("documents.uploaded_at DESC").Find(&docs).Error
	return docs, err
}

// FindByID fetches one document within the scope. Out-of-scope ids report
// gorm.ErrRecordNotFound, so callers cannot tell "not yours" from "missing".
func FindByID(db *gorm.DB, scope AccessScope, id uint) (*models.Document, error) {
	var doc models.Document
	err := scope.Apply(db.Model(&models.Document{})).First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GroupHistory returns every version in the document's group, highest first
func GroupHistory(db *gorm.DB, doc *models.Document) ([]models.Document, error) {
	var versions []models.Document
	err := db.
		Where("investor_profile_id = ? AND name = ? AND doc_type = ?", doc.InvestorProfileID, doc.Name, doc.DocType).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}

// IsDuplicateVersion reports whether an insert failed on the group-version
// unique index, i.e. a concurrent upload won the race
func IsDuplicateVersion(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver-specific fallbacks: Postgres 23505, SQLite "UNIQUE constraint failed"
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
