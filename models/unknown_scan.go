package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnknownScan records a well-formed tag UID that reached the API but
// matched no participant. Operators use these rows to triage
// unregistered or misprogrammed tags during the event; a maintenance job
// prunes old entries.
type UnknownScan struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid" gorm:"index;not null;size:32"`
	Source    string    `json:"source"` // endpoint that saw the tag, e.g. "scan" or "give-lunch"
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (s *UnknownScan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
