package repository

import (
	"log"

	"secureinvestor/models"

	"gorm.io/gorm"
)

// RecordAudit appends an audit entry. A failed audit write is logged but
// never propagated, so it cannot mask the outcome of the operation that
// triggered it.
func RecordAudit(db *gorm.DB, userID *uint, action, details string) {
	entry := models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Error writing audit log (action=%s): %v", action, err)
	}
}

// AuditFilter narrows the staff audit listing
type AuditFilter struct {
	UserID uint
	Action string
	Page   int
	Limit  int
}

// ListAuditLogs returns audit entries newest first. Action matches as a
// substring, mirroring how compliance users search the trail.
func ListAuditLogs(db *gorm.DB, filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action LIKE ?", "%"+filter.Action+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var logs []models.AuditLog
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}
