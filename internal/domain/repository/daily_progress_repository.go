package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type DailyProgressRepository interface {
	Create(db *gorm.DB, progress *entity.DailyProgress) error
	Update(db *gorm.DB, progress *entity.DailyProgress) error
	FindByUserAndDate(db *gorm.DB, userID int64, date string) (*entity.DailyProgress, error)
	// FindByUserRange returns entries for the user ordered by date ascending;
	// from/to are inclusive "2006-01-02" bounds, empty means unbounded.
	FindByUserRange(db *gorm.DB, userID int64, from, to string) ([]entity.DailyProgress, error)
	FindAll(db *gorm.DB) ([]entity.DailyProgress, error)
	Count(db *gorm.DB) (int64, error)
}
