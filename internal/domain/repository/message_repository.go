package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(db *gorm.DB, message *entity.Message) error
	Update(db *gorm.DB, message *entity.Message) error
	// FindByConversation returns messages in timestamp-ascending order,
	// paginated by offset/limit.
	FindByConversation(db *gorm.DB, conversationID string, limit, offset int) ([]entity.Message, error)
	FindAllByConversation(db *gorm.DB, conversationID string) ([]entity.Message, error)
	FindLatestByConversation(db *gorm.DB, conversationID string) (*entity.Message, error)
	// FindByConversationIDs returns messages across the given conversations
	// in timestamp-descending order.
	FindByConversationIDs(db *gorm.DB, conversationIDs []string) ([]entity.Message, error)
	// FindRecentFromOthers returns the newest messages across the given
	// conversations that were not sent by userID.
	FindRecentFromOthers(db *gorm.DB, conversationIDs []string, userID int64, limit int) ([]entity.Message, error)
	FindAll(db *gorm.DB) ([]entity.Message, error)
	DeleteByConversation(db *gorm.DB, conversationID string) (int64, error)
	CountByConversation(db *gorm.DB, conversationID string) (int64, error)
	Count(db *gorm.DB) (int64, error)
}
