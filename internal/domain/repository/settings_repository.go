package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(db *gorm.DB) (*entity.Settings, error)
	Save(db *gorm.DB, settings *entity.Settings) error
}
