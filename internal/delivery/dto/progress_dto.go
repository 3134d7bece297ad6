package dto

import "time"

type SaveDailyProgressRequest struct {
	UserID         int64           `json:"userId" validate:"required"`
	Date           string          `json:"date" validate:"required"`
	Goals          []string        `json:"goals"`
	LifestyleGoals []string        `json:"lifestyleGoals"`
	Completion     map[string]bool `json:"progress"`
}

type DailyProgressResponse struct {
	UserID         int64           `json:"userId"`
	Date           string          `json:"date"`
	Goals          []string        `json:"goals"`
	LifestyleGoals []string        `json:"lifestyleGoals"`
	Completion     map[string]bool `json:"progress"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	Percentage     int             `json:"percentage"`
	SavedAt        time.Time       `json:"savedAt"`
}
