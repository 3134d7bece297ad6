package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		UserType:  user.UserType,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

// UserToParticipantInfo converts a User entity to the trimmed-down shape used
// inside conversation summaries
func UserToParticipantInfo(user *entity.User) *dto.ParticipantInfo {
	if user == nil {
		return nil
	}

	return &dto.ParticipantInfo{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		UserType: user.UserType,
	}
}

// LoginHistoryToResponse converts a LoginHistoryEntry entity to its DTO
func LoginHistoryToResponse(entry *entity.LoginHistoryEntry) *dto.LoginHistoryResponse {
	if entry == nil {
		return nil
	}

	return &dto.LoginHistoryResponse{
		ID:         entry.ID,
		Email:      entry.Email,
		UserType:   entry.UserType,
		LoginTime:  entry.LoginTime,
		Success:    entry.Success,
		ClientAddr: entry.ClientAddr,
	}
}
