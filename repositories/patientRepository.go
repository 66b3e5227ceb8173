package repositories

import (
	"GlobalDent/cache"
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache) *PatientRepository {
	return &PatientRepository{db: db, cache: cache}
}

func (r *PatientRepository) WithTx(tx *gorm.DB) *PatientRepository {
	return &PatientRepository{db: tx, cache: r.cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Omit("History").Create(patient).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// FindDuplicate looks up a patient with the same names and date of birth.
func (r *PatientRepository) FindDuplicate(ctx context.Context, patient *models.Patient) (*models.Patient, error) {
	var existing models.Patient
	err := r.db.WithContext(ctx).
		Where("first_name = ? AND paternal_surname = ? AND maternal_surname = ? AND date_of_birth = ?",
			patient.FirstName, patient.PaternalSurname, patient.MaternalSurname, patient.DateOfBirth).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check for existing patient: %w", err)
	}
	return &existing, nil
}

func (r *PatientRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return count > 0, nil
}

// GetByID returns the patient record without its history. Results are cached.
func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := cache.PatientKey(id)
	var cached models.Patient
	if hit, err := r.cache.Get(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Uint("patient_id", id).Msg("Failed to get patient from cache")
	} else if hit {
		return &cached, nil
	}

	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		log.Warn().Err(err).Uint("patient_id", id).Msg("Failed to set patient in cache")
	}
	return &patient, nil
}

// GetDetail loads the patient with its clinical history and teeth ordered by ADA number.
// A patient without a history is returned with History set to nil.
func (r *PatientRepository) GetDetail(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("History").
		Preload("History.Teeth", func(db *gorm.DB) *gorm.DB {
			return db.Order("number_ada ASC")
		}).
		First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// List returns patients ordered by surname, optionally filtered by a search term
// matched against names and id number.
func (r *PatientRepository) List(ctx context.Context, q string) ([]models.Patient, error) {
	query := r.db.WithContext(ctx).Model(&models.Patient{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(paternal_surname) LIKE ? OR LOWER(maternal_surname) LIKE ? OR LOWER(id_number) LIKE ?",
			like, like, like, like,
		)
	}

	var patients []models.Patient
	if err := query.Order("paternal_surname ASC, first_name ASC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	err := r.db.WithContext(ctx).Model(&models.Patient{ID: patient.ID}).
		Select("first_name", "paternal_surname", "maternal_surname", "id_number", "gender",
			"date_of_birth", "phone_number", "address").
		Updates(patient).Error
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return r.InvalidateCache(ctx, patient.ID)
}

// DeletePatientAndRelated removes the patient together with its appointments,
// consultations, procedures, teeth and history. It must run inside a transaction;
// the caller invalidates the cache after commit.
func (r *PatientRepository) DeletePatientAndRelated(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	consultationIDs := db.Model(&models.Consultation{}).Select("id").Where("patient_id = ?", id)
	historyIDs := db.Model(&models.ClinicalHistory{}).Select("id").Where("patient_id = ?", id)

	if err := db.Where("patient_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
		return fmt.Errorf("failed to delete appointments: %w", err)
	}
	if err := db.Where("consultation_id IN (?)", consultationIDs).Delete(&models.ToothProcedure{}).Error; err != nil {
		return fmt.Errorf("failed to delete tooth procedures: %w", err)
	}
	if err := db.Where("patient_id = ?", id).Delete(&models.Consultation{}).Error; err != nil {
		return fmt.Errorf("failed to delete consultations: %w", err)
	}
	if err := db.Where("history_id IN (?)", historyIDs).Delete(&models.Tooth{}).Error; err != nil {
		return fmt.Errorf("failed to delete teeth: %w", err)
	}
	if err := db.Where("patient_id = ?", id).Delete(&models.ClinicalHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete clinical history: %w", err)
	}
	if err := db.Delete(&models.Patient{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

func (r *PatientRepository) Recent(ctx context.Context, limit int) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&patients).Error
	return patients, err
}

// InvalidateCache drops the cached patient record.
func (r *PatientRepository) InvalidateCache(ctx context.Context, id uint) error {
	return r.cache.Delete(ctx, cache.PatientKey(id))
}
