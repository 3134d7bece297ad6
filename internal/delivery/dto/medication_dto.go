package dto

import "time"

type PrescribeMedicationRequest struct {
	PatientID    int64  `json:"patientId" validate:"required"`
	Name         string `json:"name" validate:"required,max=255"`
	Dosage       string `json:"dosage" validate:"max=255"`
	Frequency    string `json:"frequency" validate:"max=255"`
	Instructions string `json:"instructions"`
	// StartDate is an optional "2006-01-02" date; empty means today.
	StartDate string `json:"startDate"`
}

type MedicationResponse struct {
	ID           int64     `json:"id"`
	PatientID    int64     `json:"patientId"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Instructions string    `json:"instructions"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate,omitempty"`
	Status       string    `json:"status"`
	PrescribedBy int64     `json:"prescribedBy"`
	PrescribedAt time.Time `json:"prescribedAt"`
}
