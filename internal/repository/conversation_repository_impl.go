package repository

import (
	"errors"

	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type conversationRepository struct{}

func NewConversationRepository() domainRepo.ConversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) Create(db *gorm.DB, conversation *entity.Conversation) error {
	return db.Create(conversation).Error
}

func (r *conversationRepository) FindByID(db *gorm.DB, id string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := db.Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) FindByPair(db *gorm.DB, lowID, highID int64) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := db.Where("participant_low_id = ? AND participant_high_id = ?", lowID, highID).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) FindByParticipant(db *gorm.DB, userID int64) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := db.
		Where("participant_low_id = ? OR participant_high_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) FindAll(db *gorm.DB) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := db.Order("created_at ASC").Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) Update(db *gorm.DB, conversation *entity.Conversation) error {
	return db.Save(conversation).Error
}

func (r *conversationRepository) Delete(db *gorm.DB, id string) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.Conversation{})
	return affected.RowsAffected, affected.Error
}

func (r *conversationRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Conversation{}).Count(&count).Error
	return count, err
}
