package repository

import (
	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type loginHistoryRepository struct{}

func NewLoginHistoryRepository() domainRepo.LoginHistoryRepository {
	return &loginHistoryRepository{}
}

func (r *loginHistoryRepository) Create(db *gorm.DB, entry *entity.LoginHistoryEntry) error {
	return db.Create(entry).Error
}

func (r *loginHistoryRepository) FindAll(db *gorm.DB) ([]entity.LoginHistoryEntry, error) {
	var entries []entity.LoginHistoryEntry
	err := db.Order("login_time DESC, id DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *loginHistoryRepository) FindByEmail(db *gorm.DB, email string) ([]entity.LoginHistoryEntry, error) {
	var entries []entity.LoginHistoryEntry
	err := db.Where("email = ?", email).Order("login_time DESC, id DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *loginHistoryRepository) CountBySuccess(db *gorm.DB, success bool) (int64, error) {
	var count int64
	err := db.Model(&entity.LoginHistoryEntry{}).Where("success = ?", success).Count(&count).Error
	return count, err
}

func (r *loginHistoryRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.LoginHistoryEntry{}).Count(&count).Error
	return count, err
}
