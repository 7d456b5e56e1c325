package services

import (
	"path/filepath"
	"testing"

	"nfc-event-system/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "events.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// SQLite allows one writer; a single connection avoids busy errors
	// when tests hit the ledger from many goroutines.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Team{},
		&models.Participant{},
		&models.PreRegisteredMember{},
		&models.StaffUser{},
		&models.AuthToken{},
		&models.UnknownScan{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTeam(t *testing.T, db *gorm.DB, teamID, name string) *models.Team {
	t.Helper()
	team := &models.Team{TeamID: teamID, TeamName: name}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("create team %s: %v", teamID, err)
	}
	return team
}

func createParticipant(t *testing.T, db *gorm.DB, uid, name, college string, team *models.Team) *models.Participant {
	t.Helper()
	p := &models.Participant{UID: uid, Name: name, College: college}
	if team != nil {
		p.TeamID = &team.ID
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create participant %s: %v", uid, err)
	}
	return p
}
