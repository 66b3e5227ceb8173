package repositories

import (
	"GlobalDent/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type ToothRepository struct {
	db *gorm.DB
}

func NewToothRepository(db *gorm.DB) *ToothRepository {
	return &ToothRepository{db: db}
}

func (r *ToothRepository) WithTx(tx *gorm.DB) *ToothRepository {
	return &ToothRepository{db: tx}
}

// Numbers returns the ADA numbers already charted for a history.
func (r *ToothRepository) Numbers(ctx context.Context, historyID uint) ([]int, error) {
	var numbers []int
	err := r.db.WithContext(ctx).Model(&models.Tooth{}).
		Where("history_id = ?", historyID).
		Order("number_ada ASC").
		Pluck("number_ada", &numbers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tooth numbers: %w", err)
	}
	return numbers, nil
}

// CreateBatch inserts all teeth with a single statement.
func (r *ToothRepository) CreateBatch(ctx context.Context, teeth []models.Tooth) error {
	if len(teeth) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&teeth, models.TeethPerHistory).Error; err != nil {
		return fmt.Errorf("failed to create teeth: %w", err)
	}
	return nil
}

func (r *ToothRepository) ListByHistory(ctx context.Context, historyID uint) ([]models.Tooth, error) {
	var teeth []models.Tooth
	err := r.db.WithContext(ctx).Where("history_id = ?", historyID).Order("number_ada ASC").Find(&teeth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teeth: %w", err)
	}
	return teeth, nil
}

func (r *ToothRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Tooth, error) {
	var teeth []models.Tooth
	err := r.db.WithContext(ctx).
		Joins("JOIN clinical_history ON clinical_history.id = tooth.history_id").
		Where("clinical_history.patient_id = ?", patientID).
		Order("tooth.number_ada ASC").
		Find(&teeth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teeth: %w", err)
	}
	return teeth, nil
}

// OwnerPatientID returns the patient whose history holds the tooth.
func (r *ToothRepository) OwnerPatientID(ctx context.Context, toothID uint) (uint, error) {
	var patientIDs []uint
	err := r.db.WithContext(ctx).Model(&models.ClinicalHistory{}).
		Joins("JOIN tooth ON tooth.history_id = clinical_history.id").
		Where("tooth.id = ?", toothID).
		Pluck("clinical_history.patient_id", &patientIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tooth owner: %w", err)
	}
	if len(patientIDs) == 0 {
		return 0, nil
	}
	return patientIDs[0], nil
}

func (r *ToothRepository) UpdateStatus(ctx context.Context, id uint, status models.ToothStatus) error {
	err := r.db.WithContext(ctx).Model(&models.Tooth{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update tooth status: %w", err)
	}
	return nil
}
