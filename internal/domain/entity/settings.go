package entity

// Settings is the single-row configuration persisted alongside the data it
// governs, so an exported snapshot carries its limits with it.
type Settings struct {
	ID                          int64 `gorm:"primaryKey" json:"-"`
	MaxLoginAttempts            int   `json:"maxLoginAttempts"`
	SessionTimeoutSeconds       int   `json:"sessionTimeout"`
	RequirePasswordChange       bool  `json:"requirePasswordChange"`
	MaxMessageLength            int   `json:"maxMessageLength"`
	AllowFileAttachments        bool  `json:"allowFileAttachments"`
	EnableRealTimeNotifications bool  `json:"enableRealTimeNotifications"`
	MessageRetentionDays        int   `json:"messageRetentionDays"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings mirrors the seed values of a fresh portal database.
func DefaultSettings(maxMessageLength int) *Settings {
	if maxMessageLength <= 0 {
		maxMessageLength = 2000
	}
	return &Settings{
		ID:                          1,
		MaxLoginAttempts:            5,
		SessionTimeoutSeconds:       3600,
		RequirePasswordChange:       false,
		MaxMessageLength:            maxMessageLength,
		AllowFileAttachments:        true,
		EnableRealTimeNotifications: true,
		MessageRetentionDays:        365,
	}
}
