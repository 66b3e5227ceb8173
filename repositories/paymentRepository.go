package repositories

import (
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListByConsultation(ctx context.Context, consultationID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *PaymentRepository) SumByConsultation(ctx context.Context, consultationID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("consultation_id = ?", consultationID).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total.Round(2), nil
}

// CountForPatient counts payments recorded against any consultation of the patient.
func (r *PaymentRepository) CountForPatient(ctx context.Context, patientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Joins("JOIN consultation ON consultation.id = payment.consultation_id").
		Where("consultation.patient_id = ?", patientID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count patient payments: %w", err)
	}
	return count, nil
}

// IncomeBetween sums payments received in [from, to).
func (r *PaymentRepository) IncomeBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", from.UTC(), to.UTC()).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}
	return total.Round(2), nil
}
