package repository

import (
	"errors"

	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type messageRepository struct{}

func NewMessageRepository() domainRepo.MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(db *gorm.DB, message *entity.Message) error {
	return db.Create(message).Error
}

func (r *messageRepository) Update(db *gorm.DB, message *entity.Message) error {
	return db.Save(message).Error
}

func (r *messageRepository) FindByConversation(db *gorm.DB, conversationID string, limit, offset int) ([]entity.Message, error) {
	var messages []entity.Message
	query := db.Where("conversation_id = ?", conversationID).Order("timestamp ASC, id ASC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindAllByConversation(db *gorm.DB, conversationID string) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Where("conversation_id = ?", conversationID).Order("timestamp ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindLatestByConversation(db *gorm.DB, conversationID string) (*entity.Message, error) {
	var message entity.Message
	err := db.Where("conversation_id = ?", conversationID).Order("timestamp DESC, id DESC").First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindByConversationIDs(db *gorm.DB, conversationIDs []string) ([]entity.Message, error) {
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	var messages []entity.Message
	err := db.Where("conversation_id IN ?", conversationIDs).Order("timestamp DESC, id DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindRecentFromOthers(db *gorm.DB, conversationIDs []string, userID int64, limit int) ([]entity.Message, error) {
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	var messages []entity.Message
	query := db.
		Where("conversation_id IN ? AND sender_id <> ?", conversationIDs, userID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindAll(db *gorm.DB) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.Order("timestamp ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) DeleteByConversation(db *gorm.DB, conversationID string) (int64, error) {
	affected := db.Where("conversation_id = ?", conversationID).Delete(&entity.Message{})
	return affected.RowsAffected, affected.Error
}

func (r *messageRepository) CountByConversation(db *gorm.DB, conversationID string) (int64, error) {
	var count int64
	err := db.Model(&entity.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	return count, err
}

func (r *messageRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Message{}).Count(&count).Error
	return count, err
}
