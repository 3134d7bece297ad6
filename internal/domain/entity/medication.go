package entity

import (
	"time"
)

const (
	MedicationStatusActive       = "active"
	MedicationStatusDiscontinued = "discontinued"
)

// Medication is a prescription attached to a patient. It transitions
// active -> discontinued exactly once and is never hard-deleted.
type Medication struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    int64      `gorm:"not null;index" json:"patientId"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Dosage       string     `gorm:"type:varchar(255)" json:"dosage"`
	Frequency    string     `gorm:"type:varchar(255)" json:"frequency"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;index" json:"status"`
	PrescribedBy int64      `gorm:"not null" json:"prescribedBy"`
	PrescribedAt time.Time  `json:"prescribedAt"`
}

func (Medication) TableName() string {
	return "medications"
}
