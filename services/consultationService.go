package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateConsultationInput struct {
	UserID *uint  `json:"user_id"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// ConsultationDetail is a consultation with its procedures, payments and billing summary.
type ConsultationDetail struct {
	*models.Consultation
	Billing *BillingSummary `json:"billing"`
}

type ConsultationService struct {
	consultations *repositories.ConsultationRepository
	patients      *repositories.PatientRepository
	users         repositories.UserRepository
	billing       *BillingService
}

func NewConsultationService(
	consultations *repositories.ConsultationRepository,
	patients *repositories.PatientRepository,
	users repositories.UserRepository,
	billing *BillingService,
) *ConsultationService {
	return &ConsultationService{consultations: consultations, patients: patients, users: users, billing: billing}
}

// Create opens a consultation for the patient. The operator is the explicit
// user id when given, otherwise the authenticated operator in ctx.
func (s *ConsultationService) Create(ctx context.Context, patientID uint, in CreateConsultationInput) (*models.Consultation, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, notFound("patient")
	}
	if err := utils.ValidateConsultation(in.Reason); err != nil {
		return nil, validationError(err)
	}

	operatorID := in.UserID
	if operatorID == nil {
		operatorID, _ = utils.OperatorFromContext(ctx)
	} else if err := ensureOperator(ctx, s.users, operatorID); err != nil {
		return nil, err
	}

	consultation := &models.Consultation{
		PatientID: patientID,
		UserID:    operatorID,
		Reason:    strings.TrimSpace(in.Reason),
		Notes:     strings.TrimSpace(in.Notes),
		TotalCost: decimal.Zero,
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, translateDBError(err, "invalid operator")
	}
	return consultation, nil
}

func (s *ConsultationService) Get(ctx context.Context, id uint) (*ConsultationDetail, error) {
	consultation, err := s.consultations.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}

	var paid decimal.Decimal
	for _, payment := range consultation.Payments {
		paid = paid.Add(payment.Amount)
	}
	return &ConsultationDetail{
		Consultation: consultation,
		Billing:      NewBillingSummary(consultation.ID, consultation.TotalCost, paid),
	}, nil
}

// List returns consultations newest first, optionally for a single patient.
func (s *ConsultationService) List(ctx context.Context, patientID *uint) ([]models.Consultation, error) {
	return s.consultations.List(ctx, patientID)
}

func (s *ConsultationService) Update(ctx context.Context, id uint, reason, notes string) (*ConsultationDetail, error) {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}
	if err := utils.ValidateConsultation(reason); err != nil {
		return nil, validationError(err)
	}
	if err := s.consultations.Update(ctx, id, strings.TrimSpace(reason), strings.TrimSpace(notes)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Balance returns the billing summary of the consultation.
func (s *ConsultationService) Balance(ctx context.Context, id uint) (*BillingSummary, error) {
	return s.billing.Summary(ctx, id)
}
