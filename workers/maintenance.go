package workers

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"nfc-event-system/models"
	"nfc-event-system/services"
	"nfc-event-system/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

const defaultScanRetention = 72 * time.Hour

// StartMaintenance schedules the background jobs: hourly pruning of aged
// unknown-scan triage rows, and periodic stats snapshot archival to R2
// when archival is configured.
func StartMaintenance(db *gorm.DB, reportService *services.ReportService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	retention := defaultScanRetention
	if v := os.Getenv("UNKNOWN_SCAN_RETENTION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retention = time.Duration(n) * time.Hour
		} else {
			log.Printf("⚠️  Invalid UNKNOWN_SCAN_RETENTION_HOURS %q, using default", v)
		}
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-retention)
			res := db.Where("created_at < ?", cutoff).Delete(&models.UnknownScan{})
			if res.Error != nil {
				log.Printf("[Maintenance] scan log prune failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("[Maintenance] pruned %d unknown scan entries", res.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	if utils.R2Enabled() {
		_, err = sched.NewJob(
			gocron.DurationJob(15*time.Minute),
			gocron.NewTask(func() { snapshotStats(reportService) }),
		)
		if err != nil {
			return nil, err
		}
	}

	sched.Start()
	return sched, nil
}

// snapshotStats archives the dashboard totals and leaderboard as a JSON
// document, keyed by capture time.
func snapshotStats(reportService *services.ReportService) {
	stats, err := reportService.DashboardStats()
	if err != nil {
		log.Printf("[Maintenance] snapshot stats failed: %v", err)
		return
	}
	standings, err := reportService.Leaderboard()
	if err != nil {
		log.Printf("[Maintenance] snapshot leaderboard failed: %v", err)
		return
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(map[string]interface{}{
		"generated_at": now.Format(time.RFC3339),
		"stats":        stats,
		"leaderboard":  standings,
	})
	if err != nil {
		log.Printf("[Maintenance] snapshot marshal failed: %v", err)
		return
	}

	key := "snapshots/stats-" + now.Format("20060102-150405") + ".json"
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := utils.UploadJSONToR2(ctx, key, payload); err != nil {
		log.Printf("[Maintenance] snapshot upload failed: %v", err)
		return
	}
	log.Printf("✅ Archived stats snapshot: %s", key)
}
