package repository

import (
	"careportal/internal/domain/entity"

	"gorm.io/gorm"
)

type MedicationRepository interface {
	Create(db *gorm.DB, medication *entity.Medication) error
	FindByID(db *gorm.DB, id int64) (*entity.Medication, error)
	FindByPatient(db *gorm.DB, patientID int64) ([]entity.Medication, error)
	FindAll(db *gorm.DB) ([]entity.Medication, error)
	Update(db *gorm.DB, medication *entity.Medication) error
	Count(db *gorm.DB) (int64, error)
}
