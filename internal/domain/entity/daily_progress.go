package entity

import (
	"time"
)

// DailyProgress holds one member's goal checklist for one day. There is at
// most one row per (user, date); saving again replaces the previous entry.
type DailyProgress struct {
	ID             int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64       `gorm:"not null;uniqueIndex:idx_progress_user_date" json:"userId"`
	Date           string      `gorm:"type:varchar(10);not null;uniqueIndex:idx_progress_user_date" json:"date"`
	Goals          StringSlice `gorm:"type:text" json:"goals"`
	LifestyleGoals StringSlice `gorm:"type:text" json:"lifestyleGoals"`
	Completion     BoolMap     `gorm:"type:text" json:"progress"`
	CompletedCount int         `json:"completedCount"`
	TotalCount     int         `json:"totalCount"`
	Percentage     int         `json:"percentage"`
	SavedAt        time.Time   `json:"savedAt"`
}

func (DailyProgress) TableName() string {
	return "daily_progress"
}
