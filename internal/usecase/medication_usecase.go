package usecase

import (
	"context"
	"time"

	"careportal/internal/converter"
	"careportal/internal/delivery/dto"
	"careportal/internal/domain/entity"
	"careportal/internal/domain/repository"
	"careportal/pkg/apperror"
	"careportal/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound     = apperror.NotFound("patient not found")
	ErrMedicationNotFound  = apperror.NotFound("medication not found")
	ErrNotDoctor           = apperror.Unauthorized("only doctors can manage prescriptions")
	ErrAlreadyDiscontinued = apperror.Validation("medication is already discontinued")
	ErrInvalidDateFormat   = apperror.Validation("invalid date format, use YYYY-MM-DD")
)

type MedicationUsecase interface {
	Prescribe(ctx context.Context, doctorID int64, req *dto.PrescribeMedicationRequest) (*dto.MedicationResponse, error)
	ListForPatient(ctx context.Context, patientID int64) ([]dto.MedicationResponse, error)
	Discontinue(ctx context.Context, doctorID, medicationID int64) (*dto.MedicationResponse, error)
}

type medicationUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	validate       *validator.CustomValidator
	userRepo       repository.UserRepository
	medicationRepo repository.MedicationRepository
}

func NewMedicationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	medicationRepo repository.MedicationRepository,
) MedicationUsecase {
	return &medicationUsecase{
		db:             db,
		log:            log,
		validate:       validate,
		userRepo:       userRepo,
		medicationRepo: medicationRepo,
	}
}

func (u *medicationUsecase) requireDoctor(db *gorm.DB, doctorID int64) error {
	doctor, err := u.userRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil || doctor.UserType != entity.UserTypeDoctor {
		return ErrNotDoctor
	}
	return nil
}

func (u *medicationUsecase) Prescribe(ctx context.Context, doctorID int64, req *dto.PrescribeMedicationRequest) (*dto.MedicationResponse, error) {
	if err := u.validate.Validate(req); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid prescription request", err)
	}

	if err := u.requireDoctor(u.db.WithContext(ctx), doctorID); err != nil {
		return nil, err
	}

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || patient.UserType != entity.UserTypeMember {
		return nil, ErrPatientNotFound
	}

	startDate := time.Now()
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
	}

	medication := &entity.Medication{
		PatientID:    req.PatientID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Instructions: req.Instructions,
		StartDate:    startDate,
		Status:       entity.MedicationStatusActive,
		PrescribedBy: doctorID,
		PrescribedAt: time.Now(),
	}

	if err := u.medicationRepo.Create(u.db.WithContext(ctx), medication); err != nil {
		u.log.Warnf("Failed to create medication: %+v", err)
		return nil, err
	}

	return converter.MedicationToResponse(medication), nil
}

func (u *medicationUsecase) ListForPatient(ctx context.Context, patientID int64) ([]dto.MedicationResponse, error) {
	medications, err := u.medicationRepo.FindByPatient(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list medications: %+v", err)
		return nil, err
	}

	responses := make([]dto.MedicationResponse, 0, len(medications))
	for i := range medications {
		responses = append(responses, *converter.MedicationToResponse(&medications[i]))
	}
	return responses, nil
}

func (u *medicationUsecase) Discontinue(ctx context.Context, doctorID, medicationID int64) (*dto.MedicationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requireDoctor(tx, doctorID); err != nil {
		return nil, err
	}

	medication, err := u.medicationRepo.FindByID(tx, medicationID)
	if err != nil {
		u.log.Warnf("Failed to find medication: %+v", err)
		return nil, err
	}
	if medication == nil {
		return nil, ErrMedicationNotFound
	}
	if medication.Status == entity.MedicationStatusDiscontinued {
		return nil, ErrAlreadyDiscontinued
	}

	now := time.Now()
	medication.Status = entity.MedicationStatusDiscontinued
	medication.EndDate = &now

	if err := u.medicationRepo.Update(tx, medication); err != nil {
		u.log.Warnf("Failed to update medication: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicationToResponse(medication), nil
}
