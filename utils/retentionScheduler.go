package utils

import (
	"log"
	"time"

	"secureinvestor/config"
	"secureinvestor/database"
	"secureinvestor/models"

	"github.com/robfig/cron/v3"
)

// logRetention logs retention scheduler events with timestamp
func logRetention(message string) {
	log.Printf("[RETENTION-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// pruneLoginTracking hard-deletes login-tracking rows past the retention
// window. Audit logs are never pruned.
func pruneLoginTracking() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.LoginHistoryRetentionDays)

	result := db.Unscoped().Where("timestamp < ?", cutoff).Delete(&models.LoginTracking{})
	if result.Error != nil {
		logRetention("Error pruning login tracking rows: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logRetention("Pruned stale login tracking rows")
	}
}

// StartRetentionScheduler runs the retention jobs hourly
func StartRetentionScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", pruneLoginTracking); err != nil {
		log.Fatalf("Failed to schedule retention job: %v", err)
	}

	c.Start()
	logRetention("Retention scheduler started")
	return c
}
