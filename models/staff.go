package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffUser is an operator account: admins plus the counter staff who run
// the distribution points. Passwords are stored as bcrypt hashes only.
type StaffUser struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (u *StaffUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AuthToken is the long-lived bearer token issued at /login, one per
// staff user. Repeated logins hand back the same token.
type AuthToken struct {
	Token       string    `json:"token" gorm:"primaryKey;size:36"`
	StaffUserID string    `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	StaffUser StaffUser `json:"-" gorm:"foreignKey:StaffUserID;constraint:OnDelete:CASCADE"`
}
