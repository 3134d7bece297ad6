package repository

import (
	"errors"

	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type settingsRepository struct{}

func NewSettingsRepository() domainRepo.SettingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Get(db *gorm.DB) (*entity.Settings, error) {
	var settings entity.Settings
	err := db.Where("id = ?", 1).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(db *gorm.DB, settings *entity.Settings) error {
	settings.ID = 1
	return db.Save(settings).Error
}
