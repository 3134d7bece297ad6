package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type ConversationRepository interface {
	Create(db *gorm.DB, conversation *entity.Conversation) error
	FindByID(db *gorm.DB, id string) (*entity.Conversation, error)
	FindByPair(db *gorm.DB, lowID, highID int64) (*entity.Conversation, error)
	// FindByParticipant returns the user's conversations ordered by
	// last message time, newest first.
	FindByParticipant(db *gorm.DB, userID int64) ([]entity.Conversation, error)
	FindAll(db *gorm.DB) ([]entity.Conversation, error)
	Update(db *gorm.DB, conversation *entity.Conversation) error
	Delete(db *gorm.DB, id string) (int64, error)
	Count(db *gorm.DB) (int64, error)
}
