package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type LoginHistoryRepository interface {
	Create(db *gorm.DB, entry *entity.LoginHistoryEntry) error
	FindAll(db *gorm.DB) ([]entity.LoginHistoryEntry, error)
	FindByEmail(db *gorm.DB, email string) ([]entity.LoginHistoryEntry, error)
	CountBySuccess(db *gorm.DB, success bool) (int64, error)
	Count(db *gorm.DB) (int64, error)
}
