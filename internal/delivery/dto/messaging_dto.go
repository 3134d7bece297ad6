package dto

import "time"

type SendMessageRequest struct {
	SenderID       int64                  `json:"senderId" validate:"required"`
	ConversationID string                 `json:"conversationId" validate:"required"`
	Content        string                 `json:"content"`
	MessageType    string                 `json:"messageType"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type MarkReadRequest struct {
	UserID         int64    `json:"userId" validate:"required"`
	ConversationID string   `json:"conversationId" validate:"required"`
	MessageIDs     []string `json:"messageIds"`
}

type ParticipantInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

type ConversationResponse struct {
	ID                string        `json:"id"`
	ParticipantIDs    []int64       `json:"participantIds"`
	ParticipantEmails []string      `json:"participantEmails"`
	ParticipantNames  []string      `json:"participantNames"`
	CreatedAt         time.Time     `json:"createdAt"`
	LastMessageAt     time.Time     `json:"lastMessageAt"`
	UnreadCount       map[int64]int `json:"unreadCount"`
}

// ConversationSummary is a conversation annotated for one participant's
// inbox view: the other side's current display data, the latest message and
// this participant's unread counter.
type ConversationSummary struct {
	ConversationResponse
	OtherParticipants []ParticipantInfo `json:"otherParticipants"`
	LastMessage       *MessageResponse  `json:"lastMessage,omitempty"`
	Unread            int               `json:"unread"`
}

type MessageResponse struct {
	ID             string                 `json:"id"`
	ConversationID string                 `json:"conversationId"`
	SenderID       int64                  `json:"senderId"`
	SenderEmail    string                 `json:"senderEmail"`
	SenderName     string                 `json:"senderName"`
	SenderType     string                 `json:"senderType"`
	Content        string                 `json:"content"`
	Timestamp      time.Time              `json:"timestamp"`
	ReadBy         []int64                `json:"readBy"`
	MessageType    string                 `json:"messageType"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type ConversationStatsResponse struct {
	ConversationID   string         `json:"conversationId"`
	TotalMessages    int            `json:"totalMessages"`
	MessagesByType   map[string]int `json:"messagesByType"`
	MessagesBySender map[int64]int  `json:"messagesBySender"`
	CreatedAt        time.Time      `json:"createdAt"`
	LastMessageAt    time.Time      `json:"lastMessageAt"`
	Participants     []string       `json:"participants"`
}

// TrainingExport is a redacted transcript of one conversation: display names
// and sender types but no emails or ids beyond the conversation's own.
type TrainingExport struct {
	Conversation TrainingConversation      `json:"conversation"`
	Messages     []TrainingMessage         `json:"messages"`
	Statistics   ConversationStatsResponse `json:"statistics"`
	ExportedAt   time.Time                 `json:"exportedAt"`
}

type TrainingConversation struct {
	ID               string    `json:"id"`
	Participants     []string  `json:"participants"`
	ParticipantTypes []string  `json:"participantTypes"`
	DurationMS       int64     `json:"durationMs"`
	CreatedAt        time.Time `json:"createdAt"`
	LastMessageAt    time.Time `json:"lastMessageAt"`
}

type TrainingMessage struct {
	ID          string                 `json:"id"`
	SenderType  string                 `json:"senderType"`
	SenderName  string                 `json:"senderName"`
	Content     string                 `json:"content"`
	Timestamp   time.Time              `json:"timestamp"`
	MessageType string                 `json:"messageType"`
	Metadata    map[string]interface{} `json:"metadata"`
}
