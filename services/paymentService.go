package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	Amount decimal.Decimal      `json:"amount"`
	Method models.PaymentMethod `json:"method"`
}

// PaymentService records payments. Payments never change the consultation itself;
// balances are derived by the billing service.
type PaymentService struct {
	payments      *repositories.PaymentRepository
	consultations *repositories.ConsultationRepository
}

func NewPaymentService(payments *repositories.PaymentRepository, consultations *repositories.ConsultationRepository) *PaymentService {
	return &PaymentService{payments: payments, consultations: consultations}
}

func (s *PaymentService) Record(ctx context.Context, consultationID uint, in RecordPaymentInput) (*models.Payment, error) {
	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}

	payment := &models.Payment{
		ConsultationID: consultationID,
		Amount:         in.Amount.Round(2),
		Method:         in.Method,
	}
	if err := utils.ValidatePayment(*payment); err != nil {
		return nil, validationError(err)
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Info().
		Uint("consultation_id", consultationID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("method", string(payment.Method)).
		Msg("Payment recorded")
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, consultationID uint) ([]models.Payment, error) {
	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}
	return s.payments.ListByConsultation(ctx, consultationID)
}

func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return notFound("payment")
	}
	return s.payments.Delete(ctx, id)
}
