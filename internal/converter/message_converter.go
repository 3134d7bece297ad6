package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// MessageToResponse converts a Message entity to MessageResponse DTO
func MessageToResponse(message *entity.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	metadata := make(map[string]interface{}, len(message.Metadata))
	for key, value := range message.Metadata {
		metadata[key] = value
	}

	return &dto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		SenderEmail:    message.SenderEmail,
		SenderName:     message.SenderName,
		SenderType:     message.SenderType,
		Content:        message.Content,
		Timestamp:      message.Timestamp,
		ReadBy:         append([]int64(nil), message.ReadBy...),
		MessageType:    message.MessageType,
		Metadata:       metadata,
	}
}

// MessagesToResponses converts a slice of Message entities to DTOs
func MessagesToResponses(messages []entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *MessageToResponse(&messages[i]))
	}
	return responses
}

// MessageToTraining converts a Message entity to the redacted training shape
func MessageToTraining(message *entity.Message) *dto.TrainingMessage {
	if message == nil {
		return nil
	}

	return &dto.TrainingMessage{
		ID:          message.ID,
		SenderType:  message.SenderType,
		SenderName:  message.SenderName,
		Content:     message.Content,
		Timestamp:   message.Timestamp,
		MessageType: message.MessageType,
		Metadata:    message.Metadata,
	}
}
