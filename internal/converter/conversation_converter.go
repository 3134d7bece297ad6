package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// ConversationToResponse converts a Conversation entity to its DTO
func ConversationToResponse(conversation *entity.Conversation) *dto.ConversationResponse {
	if conversation == nil {
		return nil
	}

	unread := make(map[int64]int, len(conversation.UnreadCount))
	for userID, count := range conversation.UnreadCount {
		unread[userID] = count
	}

	return &dto.ConversationResponse{
		ID:                conversation.ID,
		ParticipantIDs:    append([]int64(nil), conversation.ParticipantIDs...),
		ParticipantEmails: append([]string(nil), conversation.ParticipantEmails...),
		ParticipantNames:  append([]string(nil), conversation.ParticipantNames...),
		CreatedAt:         conversation.CreatedAt,
		LastMessageAt:     conversation.LastMessageAt,
		UnreadCount:       unread,
	}
}
