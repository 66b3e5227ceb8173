package services

import (
	"GlobalDent/database"
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PatientService struct {
	tx           *repositories.TxManager
	patients     *repositories.PatientRepository
	histories    *repositories.ClinicalHistoryRepository
	teeth        *repositories.ToothRepository
	payments     *repositories.PaymentRepository
	provisioning *ProvisioningService
	locker       *database.Locker
	phoneRegion  string
}

func NewPatientService(
	tx *repositories.TxManager,
	patients *repositories.PatientRepository,
	histories *repositories.ClinicalHistoryRepository,
	teeth *repositories.ToothRepository,
	payments *repositories.PaymentRepository,
	provisioning *ProvisioningService,
	locker *database.Locker,
	phoneRegion string,
) *PatientService {
	return &PatientService{
		tx:           tx,
		patients:     patients,
		histories:    histories,
		teeth:        teeth,
		payments:     payments,
		provisioning: provisioning,
		locker:       locker,
		phoneRegion:  phoneRegion,
	}
}

// CreateWithHistory registers the patient, opens the clinical history and charts
// all 32 teeth as one atomic unit. history may be nil.
func (s *PatientService) CreateWithHistory(ctx context.Context, patient *models.Patient, history *models.ClinicalHistory) (*models.Patient, error) {
	if err := s.preparePatient(patient); err != nil {
		return nil, err
	}
	if err := s.prepareHistory(history); err != nil {
		return nil, err
	}

	lock, err := s.locker.Acquire(ctx, patientLockKey(patient))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire patient lock: %w", err)
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to release patient lock")
		}
	}()

	existing, err := s.patients.FindDuplicate(ctx, patient)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("patient with the same details already exists (id %d): %w", existing.ID, ErrConflict)
	}

	patient.ID = 0
	patient.History = nil
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.patients.WithTx(tx).Create(ctx, patient); err != nil {
			return translateDBError(err, "id number already registered")
		}
		_, err := s.provisioning.ProvisionTx(ctx, tx, patient.ID, history)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("patient", patient.FullName()).Msg("Failed to create patient")
		return nil, err
	}

	log.Info().Uint("patient_id", patient.ID).Msg("Patient registered")
	return s.Get(ctx, patient.ID)
}

// Get returns the patient with history and teeth. A missing history is not an error.
func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	patient, err := s.patients.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, notFound("patient")
	}
	return patient, nil
}

func (s *PatientService) List(ctx context.Context, q string) ([]models.Patient, error) {
	return s.patients.List(ctx, q)
}

func (s *PatientService) Update(ctx context.Context, id uint, patient *models.Patient) (*models.Patient, error) {
	if err := s.ensurePatient(ctx, id); err != nil {
		return nil, err
	}
	if err := s.preparePatient(patient); err != nil {
		return nil, err
	}

	patient.ID = id
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, translateDBError(err, "id number already registered")
	}
	return s.Get(ctx, id)
}

// UpdateHistory edits the clinical history fields, provisioning the history first
// if the patient does not have one yet.
func (s *PatientService) UpdateHistory(ctx context.Context, patientID uint, fields *models.ClinicalHistory) (*models.ClinicalHistory, error) {
	if err := s.ensurePatient(ctx, patientID); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = &models.ClinicalHistory{}
	}
	if err := s.prepareHistory(fields); err != nil {
		return nil, err
	}

	var history *models.ClinicalHistory
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		histories := s.histories.WithTx(tx)
		current, err := histories.GetByPatientID(ctx, patientID)
		if err != nil {
			return err
		}
		if current == nil {
			history, err = s.provisioning.ProvisionTx(ctx, tx, patientID, fields)
			return err
		}

		fields.ID = current.ID
		fields.PatientID = patientID
		if fields.OpeningDate == "" {
			fields.OpeningDate = current.OpeningDate
		}
		if err := histories.Update(ctx, fields); err != nil {
			return err
		}
		history, err = histories.GetByPatientID(ctx, patientID)
		if err != nil {
			return err
		}
		history.Teeth, err = s.teeth.WithTx(tx).ListByHistory(ctx, history.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// Teeth lists the patient's odontogram ordered by ADA number.
func (s *PatientService) Teeth(ctx context.Context, patientID uint) ([]models.Tooth, error) {
	if err := s.ensurePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.teeth.ListByPatient(ctx, patientID)
}

// Delete removes the patient and every dependent record. Patients with recorded
// payments are kept.
func (s *PatientService) Delete(ctx context.Context, id uint) error {
	if err := s.ensurePatient(ctx, id); err != nil {
		return err
	}

	paid, err := s.payments.CountForPatient(ctx, id)
	if err != nil {
		return err
	}
	if paid > 0 {
		return fmt.Errorf("patient has %d recorded payments: %w", paid, ErrConflict)
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.patients.WithTx(tx).DeletePatientAndRelated(ctx, id)
	})
	if err != nil {
		log.Error().Err(err).Uint("patient_id", id).Msg("Failed to delete patient")
		return translateDBError(err, "patient has dependent records")
	}
	if err := s.patients.InvalidateCache(ctx, id); err != nil {
		log.Warn().Err(err).Uint("patient_id", id).Msg("Failed to invalidate patient cache")
	}
	log.Info().Uint("patient_id", id).Msg("Patient deleted")
	return nil
}

// ensurePatient reads through the patient cache.
func (s *PatientService) ensurePatient(ctx context.Context, id uint) error {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return notFound("patient")
	}
	return nil
}

func (s *PatientService) preparePatient(patient *models.Patient) error {
	if patient == nil {
		return validationError(fmt.Errorf("patient is required"))
	}
	utils.NormalizePatient(patient)
	if err := utils.ValidatePatient(*patient, s.phoneRegion); err != nil {
		return validationError(err)
	}
	phone, err := utils.NormalizePhone(patient.PhoneNumber, s.phoneRegion)
	if err != nil {
		return validationError(err)
	}
	patient.PhoneNumber = phone
	return nil
}

func (s *PatientService) prepareHistory(history *models.ClinicalHistory) error {
	if history == nil {
		return nil
	}
	history.OpeningDate = strings.TrimSpace(history.OpeningDate)
	history.BloodType = strings.ToUpper(strings.TrimSpace(history.BloodType))
	if err := utils.ValidateHistory(*history, s.phoneRegion); err != nil {
		return validationError(err)
	}
	phone, err := utils.NormalizePhone(history.EmergencyContactPhone, s.phoneRegion)
	if err != nil {
		return validationError(err)
	}
	history.EmergencyContactPhone = phone
	return nil
}

func patientLockKey(patient *models.Patient) string {
	return strings.ToLower(fmt.Sprintf("patient:%s_%s_%s_%s",
		patient.FirstName, patient.PaternalSurname, patient.MaternalSurname, patient.DateOfBirth))
}
