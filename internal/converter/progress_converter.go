package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// DailyProgressToResponse converts a DailyProgress entity to its DTO
func DailyProgressToResponse(progress *entity.DailyProgress) *dto.DailyProgressResponse {
	if progress == nil {
		return nil
	}

	completion := make(map[string]bool, len(progress.Completion))
	for goal, done := range progress.Completion {
		completion[goal] = done
	}

	return &dto.DailyProgressResponse{
		UserID:         progress.UserID,
		Date:           progress.Date,
		Goals:          append([]string(nil), progress.Goals...),
		LifestyleGoals: append([]string(nil), progress.LifestyleGoals...),
		Completion:     completion,
		CompletedCount: progress.CompletedCount,
		TotalCount:     progress.TotalCount,
		Percentage:     progress.Percentage,
		SavedAt:        progress.SavedAt,
	}
}
