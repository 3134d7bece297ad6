package dto

import (
	"time"

	"careportal/internal/domain/entity"
)

// RootSnapshot is the whole-store export/import shape: every collection plus
// the settings subtree in one JSON object. Users carry their password hashes
// here (and only here) so a snapshot round-trip is lossless.
type RootSnapshot struct {
	Users         []SnapshotUser             `json:"users"`
	LoginHistory  []entity.LoginHistoryEntry `json:"loginHistory"`
	Conversations []entity.Conversation      `json:"conversations"`
	Messages      []entity.Message           `json:"messages"`
	Medications   []entity.Medication        `json:"medications"`
	DailyProgress []entity.DailyProgress     `json:"dailyProgress"`
	Settings      *entity.Settings           `json:"settings,omitempty"`
}

type SnapshotUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	UserType     string    `json:"userType"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

type StatsResponse struct {
	TotalUsers         int64 `json:"totalUsers"`
	MemberUsers        int64 `json:"memberUsers"`
	DoctorUsers        int64 `json:"doctorUsers"`
	TotalLogins        int64 `json:"totalLogins"`
	SuccessfulLogins   int64 `json:"successfulLogins"`
	FailedLogins       int64 `json:"failedLogins"`
	TotalConversations int64 `json:"totalConversations"`
	TotalMessages      int64 `json:"totalMessages"`
	TotalMedications   int64 `json:"totalMedications"`
	ProgressEntries    int64 `json:"progressEntries"`
}
