package repository

import (
	"errors"

	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type dailyProgressRepository struct{}

func NewDailyProgressRepository() domainRepo.DailyProgressRepository {
	return &dailyProgressRepository{}
}

func (r *dailyProgressRepository) Create(db *gorm.DB, progress *entity.DailyProgress) error {
	return db.Create(progress).Error
}

func (r *dailyProgressRepository) Update(db *gorm.DB, progress *entity.DailyProgress) error {
	return db.Save(progress).Error
}

func (r *dailyProgressRepository) FindByUserAndDate(db *gorm.DB, userID int64, date string) (*entity.DailyProgress, error) {
	var progress entity.DailyProgress
	err := db.Where("user_id = ? AND date = ?", userID, date).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *dailyProgressRepository) FindByUserRange(db *gorm.DB, userID int64, from, to string) ([]entity.DailyProgress, error) {
	query := db.Where("user_id = ?", userID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	var entries []entity.DailyProgress
	err := query.Order("date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *dailyProgressRepository) FindAll(db *gorm.DB) ([]entity.DailyProgress, error) {
	var entries []entity.DailyProgress
	err := db.Order("user_id ASC, date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *dailyProgressRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.DailyProgress{}).Count(&count).Error
	return count, err
}
