package usecase

import (
	"context"
	"testing"

	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescribeMedication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Members cannot prescribe.
	_, err := env.medication.Prescribe(ctx, env.member.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.member.ID,
		Name:      "Lisinopril",
	})
	assert.ErrorIs(t, err, ErrNotDoctor)

	// A doctor is not a valid patient.
	_, err = env.medication.Prescribe(ctx, env.doctor.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.doctor.ID,
		Name:      "Lisinopril",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = env.medication.Prescribe(ctx, env.doctor.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.member.ID,
		Name:      "Lisinopril",
		StartDate: "not-a-date",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	prescribed, err := env.medication.Prescribe(ctx, env.doctor.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.member.ID,
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "once daily",
		StartDate: "2026-08-01",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MedicationStatusActive, prescribed.Status)
	assert.Equal(t, "2026-08-01", prescribed.StartDate)
	assert.Equal(t, env.doctor.ID, prescribed.PrescribedBy)
	assert.Empty(t, prescribed.EndDate)

	list, err := env.medication.ListForPatient(ctx, env.member.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, prescribed.ID, list[0].ID)
}

func TestDiscontinueMedicationIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	prescribed, err := env.medication.Prescribe(ctx, env.doctor.ID, &dto.PrescribeMedicationRequest{
		PatientID: env.member.ID,
		Name:      "Metformin",
		Dosage:    "500mg",
	})
	require.NoError(t, err)

	_, err = env.medication.Discontinue(ctx, env.member.ID, prescribed.ID)
	assert.ErrorIs(t, err, ErrNotDoctor)

	_, err = env.medication.Discontinue(ctx, env.doctor.ID, 9999)
	assert.ErrorIs(t, err, ErrMedicationNotFound)

	discontinued, err := env.medication.Discontinue(ctx, env.doctor.ID, prescribed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MedicationStatusDiscontinued, discontinued.Status)
	assert.NotEmpty(t, discontinued.EndDate)

	// The transition happens exactly once.
	_, err = env.medication.Discontinue(ctx, env.doctor.ID, prescribed.ID)
	assert.ErrorIs(t, err, ErrAlreadyDiscontinued)

	// Discontinued entries stay on the patient record.
	list, err := env.medication.ListForPatient(ctx, env.member.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MedicationStatusDiscontinued, list[0].Status)
}
