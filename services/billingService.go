package services

import (
	"GlobalDent/repositories"
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceState classifies a consultation balance.
type BalanceState string

const (
	BalanceOwed     BalanceState = "owed"
	BalanceOverpaid BalanceState = "overpaid"
	BalanceSettled  BalanceState = "settled"
)

// BillingSummary is the derived billing view of one consultation.
type BillingSummary struct {
	ConsultationID   uint            `json:"consultation_id"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
	SuggestedPayment decimal.Decimal `json:"suggested_payment"`
	State            BalanceState    `json:"state"`
}

// BillingService derives consultation totals from tooth procedures and balances from payments.
type BillingService struct {
	consultations *repositories.ConsultationRepository
	payments      *repositories.PaymentRepository
}

func NewBillingService(consultations *repositories.ConsultationRepository, payments *repositories.PaymentRepository) *BillingService {
	return &BillingService{consultations: consultations, payments: payments}
}

// CalculateTotalCost sums price_charged over the consultation's procedures.
func (s *BillingService) CalculateTotalCost(ctx context.Context, consultationID uint) (decimal.Decimal, error) {
	if err := s.ensureConsultation(ctx, consultationID); err != nil {
		return decimal.Zero, err
	}
	return s.consultations.SumPriceCharged(ctx, consultationID)
}

// GetBalance is the stored total cost minus everything paid so far. It may be negative.
func (s *BillingService) GetBalance(ctx context.Context, consultationID uint) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, consultationID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Balance, nil
}

// RecalculateTotalCost recomputes the total inside tx and persists it on the consultation.
func (s *BillingService) RecalculateTotalCost(ctx context.Context, tx *gorm.DB, consultationID uint) (decimal.Decimal, error) {
	consultations := s.consultations.WithTx(tx)
	total, err := consultations.SumPriceCharged(ctx, consultationID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := consultations.UpdateTotalCost(ctx, consultationID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *BillingService) Summary(ctx context.Context, consultationID uint) (*BillingSummary, error) {
	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}

	paid, err := s.payments.SumByConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	return NewBillingSummary(consultationID, consultation.TotalCost, paid), nil
}

// NewBillingSummary derives balance, state and suggested payment from the two totals.
func NewBillingSummary(consultationID uint, totalCost, totalPaid decimal.Decimal) *BillingSummary {
	totalCost = totalCost.Round(2)
	totalPaid = totalPaid.Round(2)
	balance := totalCost.Sub(totalPaid).Round(2)

	summary := &BillingSummary{
		ConsultationID:   consultationID,
		TotalCost:        totalCost,
		TotalPaid:        totalPaid,
		Balance:          balance,
		SuggestedPayment: decimal.Zero,
		State:            BalanceSettled,
	}
	switch {
	case balance.IsPositive():
		summary.State = BalanceOwed
		summary.SuggestedPayment = balance
	case balance.IsNegative():
		summary.State = BalanceOverpaid
	}
	return summary
}

func (s *BillingService) ensureConsultation(ctx context.Context, id uint) error {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if consultation == nil {
		return notFound("consultation")
	}
	return nil
}
