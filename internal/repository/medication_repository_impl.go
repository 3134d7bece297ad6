package repository

import (
	"errors"

	"careportal/internal/domain/entity"
	domainRepo "careportal/internal/domain/repository"

	"gorm.io/gorm"
)

type medicationRepository struct{}

func NewMedicationRepository() domainRepo.MedicationRepository {
	return &medicationRepository{}
}

func (r *medicationRepository) Create(db *gorm.DB, medication *entity.Medication) error {
	return db.Create(medication).Error
}

func (r *medicationRepository) FindByID(db *gorm.DB, id int64) (*entity.Medication, error) {
	var medication entity.Medication
	err := db.Where("id = ?", id).First(&medication).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medication, nil
}

func (r *medicationRepository) FindByPatient(db *gorm.DB, patientID int64) ([]entity.Medication, error) {
	var medications []entity.Medication
	err := db.Where("patient_id = ?", patientID).Order("prescribed_at DESC, id DESC").Find(&medications).Error
	if err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *medicationRepository) FindAll(db *gorm.DB) ([]entity.Medication, error) {
	var medications []entity.Medication
	err := db.Order("id ASC").Find(&medications).Error
	if err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *medicationRepository) Update(db *gorm.DB, medication *entity.Medication) error {
	return db.Save(medication).Error
}

func (r *medicationRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Medication{}).Count(&count).Error
	return count, err
}
