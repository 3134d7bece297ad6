package entity

import (
	"time"
)

// LoginHistoryEntry is an append-only audit record of a login attempt.
// Entries are never mutated or deleted.
type LoginHistoryEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"type:varchar(255);not null;index" json:"email"`
	UserType   string    `gorm:"type:varchar(20);not null" json:"userType"`
	LoginTime  time.Time `gorm:"index" json:"loginTime"`
	Success    bool      `gorm:"not null" json:"success"`
	ClientAddr string    `gorm:"type:varchar(64)" json:"clientAddr,omitempty"`
}

func (LoginHistoryEntry) TableName() string {
	return "login_history"
}
