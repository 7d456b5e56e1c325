package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Presentation defaults for participants without a team.
const (
	SoloTeamName     = "Individual"
	DefaultTeamColor = "#00E676"
)

// Team groups participants for bulk distribution and the leaderboard.
// TeamID is the external identifier printed on badges and used in URLs
// (e.g. "team_phoenix"); ID is the internal key rows reference.
type Team struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TeamID    string    `json:"team_id" gorm:"uniqueIndex;not null"`
	TeamName  string    `json:"team_name" gorm:"not null"`
	TeamColor string    `json:"team_color" gorm:"default:'#00E676'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Participants  []Participant         `json:"participants,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
	PreRegistered []PreRegisteredMember `json:"pre_registered,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.TeamColor == "" {
		t.TeamColor = DefaultTeamColor
	}
	return nil
}

// PreRegisteredMember is a placeholder slot created before the event.
// The registration desk converts it into a Participant when the member's
// physical tag is first scanned; IsLinked flips false→true exactly once.
type PreRegisteredMember struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TeamID    string    `json:"-" gorm:"not null;uniqueIndex:idx_prereg_team_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_prereg_team_name"`
	College   string    `json:"college"`
	IsLinked  bool      `json:"is_linked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}

func (m *PreRegisteredMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
