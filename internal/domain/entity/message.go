package entity

import (
	"time"
)

const (
	MessageTypeText = "text"

	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	MetadataKeyContext  = "context"
	MetadataKeyPriority = "priority"
	MetadataKeyTags     = "tags"

	DefaultMessageContext = "general"
)

// Message is one entry in a conversation. Everything except ReadBy is
// immutable after creation; ReadBy only grows and always contains the sender.
//
// Sender email, name and type are a snapshot taken when the message was sent.
type Message struct {
	ID             string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(64);not null;index" json:"conversationId"`
	SenderID       int64     `gorm:"not null;index" json:"senderId"`
	SenderEmail    string    `gorm:"type:varchar(255)" json:"senderEmail"`
	SenderName     string    `gorm:"type:varchar(255)" json:"senderName"`
	SenderType     string    `gorm:"type:varchar(20)" json:"senderType"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
	ReadBy         Int64Set  `gorm:"type:text" json:"readBy"`
	MessageType    string    `gorm:"type:varchar(20)" json:"messageType"`
	Metadata       JSON      `gorm:"type:text" json:"metadata"`
}

func (Message) TableName() string {
	return "messages"
}

// Tags returns the metadata tag list, tolerating both []string (fresh
// entities) and []interface{} (values that round-tripped through JSON).
func (m *Message) Tags() []string {
	raw, ok := m.Metadata[MetadataKeyTags]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

func (m *Message) Priority() string {
	if p, ok := m.Metadata[MetadataKeyPriority].(string); ok && p != "" {
		return p
	}
	return PriorityNormal
}
