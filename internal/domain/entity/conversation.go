package entity

import (
	"fmt"
	"time"
)

// Conversation is a two-party message thread. The (low, high) participant id
// pair carries a unique index, so at most one conversation exists for any
// unordered pair of users.
//
// Participant emails and names are a snapshot taken at creation time and are
// not refreshed when a user is edited later; read paths that need current
// display data resolve it from the user repository instead.
type Conversation struct {
	ID                string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	ParticipantLowID  int64       `gorm:"not null;uniqueIndex:idx_conversation_pair;index" json:"-"`
	ParticipantHighID int64       `gorm:"not null;uniqueIndex:idx_conversation_pair;index" json:"-"`
	ParticipantIDs    Int64Slice  `gorm:"type:text;not null" json:"participantIds"`
	ParticipantEmails StringSlice `gorm:"type:text" json:"participantEmails"`
	ParticipantNames  StringSlice `gorm:"type:text" json:"participantNames"`
	CreatedAt         time.Time   `json:"createdAt"`
	LastMessageAt     time.Time   `gorm:"index" json:"lastMessageAt"`
	UnreadCount       CountMap    `gorm:"type:text" json:"unreadCount"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// PairKey normalizes an unordered user id pair into (low, high).
func PairKey(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasParticipant(userID int64) bool {
	return c.ParticipantLowID == userID || c.ParticipantHighID == userID
}

// OtherParticipantIDs returns the participant ids excluding userID.
func (c *Conversation) OtherParticipantIDs(userID int64) []int64 {
	var others []int64
	for _, id := range c.ParticipantIDs {
		if id != userID {
			others = append(others, id)
		}
	}
	return others
}

func (c *Conversation) String() string {
	return fmt.Sprintf("conversation %s (%d, %d)", c.ID, c.ParticipantLowID, c.ParticipantHighID)
}
