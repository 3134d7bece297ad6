package converter

import (
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
)

// MedicationToResponse converts a Medication entity to MedicationResponse DTO
func MedicationToResponse(medication *entity.Medication) *dto.MedicationResponse {
	if medication == nil {
		return nil
	}

	response := &dto.MedicationResponse{
		ID:           medication.ID,
		PatientID:    medication.PatientID,
		Name:         medication.Name,
		Dosage:       medication.Dosage,
		Frequency:    medication.Frequency,
		Instructions: medication.Instructions,
		StartDate:    medication.StartDate.Format("2006-01-02"),
		Status:       medication.Status,
		PrescribedBy: medication.PrescribedBy,
		PrescribedAt: medication.PrescribedAt,
	}

	if medication.EndDate != nil {
		response.EndDate = medication.EndDate.Format("2006-01-02")
	}

	return response
}
