package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is an event attendee bound to a physical NFC tag.
// UID is stored in canonical form (uppercase hex, no separators) and is
// immutable after creation. Each item flag is monotonic: the distribution
// ledger sets it true exactly once and records when.
type Participant struct {
	ID      string  `json:"id" gorm:"primaryKey"`
	UID     string  `json:"uid" gorm:"uniqueIndex;not null;size:32"`
	Name    string  `json:"name" gorm:"not null"`
	College string  `json:"college"`
	TeamID  *string `json:"-" gorm:"index"`

	RegistrationGoodies   bool       `json:"registration_goodies" gorm:"default:false"`
	RegistrationGoodiesAt *time.Time `json:"registration_goodies_at,omitempty"`
	Breakfast             bool       `json:"breakfast" gorm:"default:false"`
	BreakfastAt           *time.Time `json:"breakfast_at,omitempty"`
	Lunch                 bool       `json:"lunch" gorm:"default:false"`
	LunchAt               *time.Time `json:"lunch_at,omitempty"`
	Snacks                bool       `json:"snacks" gorm:"default:false"`
	SnacksAt              *time.Time `json:"snacks_at,omitempty"`
	Dinner                bool       `json:"dinner" gorm:"default:false"`
	DinnerAt              *time.Time `json:"dinner_at,omitempty"`
	MidnightSnacks        bool       `json:"midnight_snacks" gorm:"default:false"`
	MidnightSnacksAt      *time.Time `json:"midnight_snacks_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ItemStates returns the collection flag per item key, for scan snapshots.
func (p *Participant) ItemStates() map[string]bool {
	states := make(map[string]bool, len(Items))
	for _, item := range Items {
		states[item.Key] = item.Collected(p)
	}
	return states
}

// CollectedCount counts how many of the six items this participant holds.
func (p *Participant) CollectedCount() int {
	n := 0
	for _, item := range Items {
		if item.Collected(p) {
			n++
		}
	}
	return n
}
