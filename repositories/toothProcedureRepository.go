package repositories

import (
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ToothProcedureRepository struct {
	db *gorm.DB
}

func NewToothProcedureRepository(db *gorm.DB) *ToothProcedureRepository {
	return &ToothProcedureRepository{db: db}
}

func (r *ToothProcedureRepository) WithTx(tx *gorm.DB) *ToothProcedureRepository {
	return &ToothProcedureRepository{db: tx}
}

func (r *ToothProcedureRepository) Create(ctx context.Context, toothProcedure *models.ToothProcedure) error {
	if err := r.db.WithContext(ctx).Omit("Tooth", "Procedure").Create(toothProcedure).Error; err != nil {
		return fmt.Errorf("failed to create tooth procedure: %w", err)
	}
	return nil
}

func (r *ToothProcedureRepository) GetByID(ctx context.Context, id uint) (*models.ToothProcedure, error) {
	var toothProcedure models.ToothProcedure
	err := r.db.WithContext(ctx).Preload("Tooth").Preload("Procedure").First(&toothProcedure, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tooth procedure: %w", err)
	}
	return &toothProcedure, nil
}

func (r *ToothProcedureRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.ToothProcedure{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete tooth procedure: %w", err)
	}
	return nil
}

func (r *ToothProcedureRepository) ListByConsultation(ctx context.Context, consultationID uint) ([]models.ToothProcedure, error) {
	var toothProcedures []models.ToothProcedure
	err := r.db.WithContext(ctx).
		Preload("Tooth").
		Preload("Procedure").
		Where("consultation_id = ?", consultationID).
		Order("created_at ASC, id ASC").
		Find(&toothProcedures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tooth procedures: %w", err)
	}
	return toothProcedures, nil
}

func (r *ToothProcedureRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ToothProcedure{}).Count(&count).Error
	return count, err
}
