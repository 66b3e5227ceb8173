package repositories

import (
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ClinicalHistoryRepository struct {
	db *gorm.DB
}

func NewClinicalHistoryRepository(db *gorm.DB) *ClinicalHistoryRepository {
	return &ClinicalHistoryRepository{db: db}
}

func (r *ClinicalHistoryRepository) WithTx(tx *gorm.DB) *ClinicalHistoryRepository {
	return &ClinicalHistoryRepository{db: tx}
}

func (r *ClinicalHistoryRepository) Create(ctx context.Context, history *models.ClinicalHistory) error {
	if err := r.db.WithContext(ctx).Omit("Teeth").Create(history).Error; err != nil {
		return fmt.Errorf("failed to create clinical history: %w", err)
	}
	return nil
}

// GetByPatientID returns nil, nil when the patient has no history.
func (r *ClinicalHistoryRepository) GetByPatientID(ctx context.Context, patientID uint) (*models.ClinicalHistory, error) {
	var history models.ClinicalHistory
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clinical history: %w", err)
	}
	return &history, nil
}

func (r *ClinicalHistoryRepository) Update(ctx context.Context, history *models.ClinicalHistory) error {
	err := r.db.WithContext(ctx).Model(&models.ClinicalHistory{ID: history.ID}).
		Select("opening_date", "preexisting_conditions", "current_medications", "emergency_contact_name",
			"emergency_contact_phone", "blood_type", "oral_health_observations").
		Updates(history).Error
	if err != nil {
		return fmt.Errorf("failed to update clinical history: %w", err)
	}
	return nil
}
