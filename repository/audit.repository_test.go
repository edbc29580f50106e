package repository

import (
	"testing"

	"secureinvestor/models"

	"github.com/stretchr/testify/require"
)

func TestRecordAuditAppends(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Name: "Audited", Email: "audited@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	userID := user.ID
	RecordAudit(db, &userID, models.ActionUpload, "Uploaded document 'passport.pdf'")
	RecordAudit(db, nil, models.ActionLogin, "System login entry")

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 2)

	var withUser models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionUpload).First(&withUser).Error)
	require.Equal(t, user.ID, *withUser.UserID)

	var anonymous models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionLogin).First(&anonymous).Error)
	require.Nil(t, anonymous.UserID)
}

func TestListAuditLogsFilters(t *testing.T) {
	db := setupTestDB(t)

	alice := models.User{Name: "Alice", Email: "alice-audit@example.com", Password: "x"}
	bob := models.User{Name: "Bob", Email: "bob-audit@example.com", Password: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	aliceID, bobID := alice.ID, bob.ID
	RecordAudit(db, &aliceID, models.ActionUpload, "upload one")
	RecordAudit(db, &aliceID, models.ActionDownload, "download one")
	RecordAudit(db, &bobID, models.ActionUpload, "upload two")

	// Filter by user
	logs, total, err := ListAuditLogs(db, AuditFilter{UserID: aliceID})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, entry := range logs {
		require.Equal(t, aliceID, *entry.UserID)
	}

	// Substring action filter
	logs, total, err = ListAuditLogs(db, AuditFilter{Action: "LOAD"})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	_ = logs

	logs, total, err = ListAuditLogs(db, AuditFilter{Action: models.ActionDownload})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, models.ActionDownload, logs[0].Action)

	// Pagination caps the page size
	logs, total, err = ListAuditLogs(db, AuditFilter{Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, logs, 2)
}
