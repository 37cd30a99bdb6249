package jobs

import (
	"log"
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
)

// CloseExpiredChallengeGroups deactivates blocks whose end time has passed so
// their challenges drop out of student listings.
func CloseExpiredChallengeGroups() {
	log.Println("Running job: CloseExpiredChallengeGroups...")

	result := database.DB.Model(&models.ChallengeGroup{}).
		Where("is_active = true AND end_time IS NOT NULL AND end_time < ?", time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		log.Printf("Error closing expired blocks: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Closed %d expired blocks", result.RowsAffected)
	}
}

// PurgeOldAnnouncements deletes announcements older than 90 days.
func PurgeOldAnnouncements() {
	log.Println("Running job: PurgeOldAnnouncements...")

	cutoff := time.Now().AddDate(0, 0, -90)
	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.Announcement{})
	if result.Error != nil {
		log.Printf("Error purging old announcements: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Purged %d old announcements", result.RowsAffected)
	}
}
