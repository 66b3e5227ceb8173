package repositories

import (
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) WithTx(tx *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: tx}
}

func (r *ConsultationRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	err := r.db.WithContext(ctx).Omit("Patient", "User", "ToothProcedures", "Payments").Create(consultation).Error
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

// GetByID returns the bare consultation row, or nil, nil if it does not exist.
func (r *ConsultationRepository) GetByID(ctx context.Context, id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.db.WithContext(ctx).First(&consultation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

// GetDetail loads the consultation with its patient, operator, procedures and payments.
func (r *ConsultationRepository) GetDetail(ctx context.Context, id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, role_id, created_at")
		}).
		Preload("ToothProcedures", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("ToothProcedures.Tooth").
		Preload("ToothProcedures.Procedure").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, id ASC")
		}).
		First(&consultation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

// List returns consultations newest first, restricted to one patient when patientID is set.
func (r *ConsultationRepository) List(ctx context.Context, patientID *uint) ([]models.Consultation, error) {
	query := r.db.WithContext(ctx).Preload("Patient")
	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}

	var consultations []models.Consultation
	if err := query.Order("date DESC, id DESC").Find(&consultations).Error; err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (r *ConsultationRepository) Update(ctx context.Context, id uint, reason, notes string) error {
	err := r.db.WithContext(ctx).Model(&models.Consultation{}).Where("id = ?", id).
		Updates(map[string]interface{}{"reason": reason, "notes": notes}).Error
	if err != nil {
		return fmt.Errorf("failed to update consultation: %w", err)
	}
	return nil
}

// SumPriceCharged aggregates the price of every procedure recorded on the consultation.
func (r *ConsultationRepository) SumPriceCharged(ctx context.Context, id uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ToothProcedure{}).
		Where("consultation_id = ?", id).
		Select("COALESCE(SUM(price_charged), 0)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum procedure prices: %w", err)
	}
	return total.Round(2), nil
}

func (r *ConsultationRepository) UpdateTotalCost(ctx context.Context, id uint, total decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&models.Consultation{}).Where("id = ?", id).Update("total_cost", total).Error
	if err != nil {
		return fmt.Errorf("failed to update consultation total: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Consultation{}).Count(&count).Error
	return count, err
}

func (r *ConsultationRepository) Recent(ctx context.Context, limit int) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := r.db.WithContext(ctx).Preload("Patient").Order("date DESC, id DESC").Limit(limit).Find(&consultations).Error
	return consultations, err
}

// WithOutstandingBalance returns consultations with a non-zero total whose payments
// do not cover it, newest first.
func (r *ConsultationRepository) WithOutstandingBalance(ctx context.Context, limit int) ([]models.Consultation, error) {
	paid := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(payment.amount), 0)").
		Where("payment.consultation_id = consultation.id")

	var consultations []models.Consultation
	err := r.db.WithContext(ctx).Preload("Patient").
		Where("consultation.total_cost > 0").
		Where("consultation.total_cost > (?)", paid).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&consultations).Error
	return consultations, err
}
