package services

import (
	"log"
	"math"

	"nfc-event-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds a row-level exclusive lock to the query. SQLite (used in
// tests) has no FOR UPDATE grammar; its single-writer transaction lock
// serializes the read-modify-write instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// recordUnknownScan keeps a triage trail of tags nobody recognizes.
// Failures here never fail the calling request.
func recordUnknownScan(db *gorm.DB, uid, source string) {
	scan := models.UnknownScan{UID: uid, Source: source}
	if err := db.Create(&scan).Error; err != nil {
		log.Printf("[TRIAGE] failed to record unknown tag %s from %s: %v", uid, source, err)
		return
	}
	log.Printf("[TRIAGE] unknown tag %s seen at %s", uid, source)
}

// round1 rounds to one decimal place, the precision every stat is
// reported with.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
