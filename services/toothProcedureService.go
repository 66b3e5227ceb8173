package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	extractionKeywords = []string{"extraction", "extracci"}
	fillingKeywords    = []string{"filling", "obturaci", "resin", "resina"}
)

// ResolveToothStatus decides the tooth status a procedure leaves behind. An explicit
// resulting status on the catalog entry wins over the name keywords.
func ResolveToothStatus(procedure models.Procedure) models.ToothStatus {
	if procedure.ResultingStatus != nil && procedure.ResultingStatus.Valid() {
		return *procedure.ResultingStatus
	}

	name := strings.ToLower(procedure.Name)
	for _, keyword := range extractionKeywords {
		if strings.Contains(name, keyword) {
			return models.ToothExtracted
		}
	}
	for _, keyword := range fillingKeywords {
		if strings.Contains(name, keyword) {
			return models.ToothFilled
		}
	}
	return models.ToothPending
}

// ApplyProcedureInput records one catalog procedure on one tooth. A nil or zero
// PriceCharged falls back to the catalog base price.
type ApplyProcedureInput struct {
	ToothID      uint             `json:"tooth_id" binding:"required"`
	ProcedureID  uint             `json:"procedure_id" binding:"required"`
	PriceCharged *decimal.Decimal `json:"price_charged"`
	Notes        string           `json:"notes"`
}

// ToothOption is an entry of the tooth selection list.
type ToothOption struct {
	ID     uint               `json:"id"`
	Number int                `json:"number_ada"`
	Status models.ToothStatus `json:"status"`
	Label  string             `json:"label"`
}

type ToothProcedureService struct {
	tx              *repositories.TxManager
	consultations   *repositories.ConsultationRepository
	procedures      *repositories.ProcedureRepository
	toothProcedures *repositories.ToothProcedureRepository
	teeth           *repositories.ToothRepository
	billing         *BillingService
}

func NewToothProcedureService(
	tx *repositories.TxManager,
	consultations *repositories.ConsultationRepository,
	procedures *repositories.ProcedureRepository,
	toothProcedures *repositories.ToothProcedureRepository,
	teeth *repositories.ToothRepository,
	billing *BillingService,
) *ToothProcedureService {
	return &ToothProcedureService{
		tx:              tx,
		consultations:   consultations,
		procedures:      procedures,
		toothProcedures: toothProcedures,
		teeth:           teeth,
		billing:         billing,
	}
}

// Apply records the procedure, recomputes the consultation total and updates the
// tooth status in one transaction.
func (s *ToothProcedureService) Apply(ctx context.Context, consultationID uint, in ApplyProcedureInput) (*models.ToothProcedure, error) {
	price := decimal.Zero
	if in.PriceCharged != nil {
		price = *in.PriceCharged
	}
	if err := utils.ValidatePrice(price); err != nil {
		return nil, validationError(err)
	}

	procedure, err := s.procedures.GetByID(ctx, in.ProcedureID)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, notFound("procedure")
	}
	if price.IsZero() {
		price = procedure.BasePrice
	}

	toothProcedure := &models.ToothProcedure{
		ConsultationID: consultationID,
		ToothID:        in.ToothID,
		ProcedureID:    procedure.ID,
		PriceCharged:   price.Round(2),
		Notes:          strings.TrimSpace(in.Notes),
	}
	status := ResolveToothStatus(*procedure)

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		consultation, err := s.consultations.WithTx(tx).GetByID(ctx, consultationID)
		if err != nil {
			return err
		}
		if consultation == nil {
			return notFound("consultation")
		}

		teeth := s.teeth.WithTx(tx)
		owner, err := teeth.OwnerPatientID(ctx, in.ToothID)
		if err != nil {
			return err
		}
		if owner == 0 {
			return notFound("tooth")
		}
		if owner != consultation.PatientID {
			return ErrToothNotInConsultation
		}

		if err := s.toothProcedures.WithTx(tx).Create(ctx, toothProcedure); err != nil {
			return translateDBError(err, "invalid tooth procedure")
		}
		if _, err := s.billing.RecalculateTotalCost(ctx, tx, consultationID); err != nil {
			return err
		}
		return teeth.UpdateStatus(ctx, in.ToothID, status)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("consultation_id", consultationID).
		Uint("tooth_id", in.ToothID).
		Str("procedure", procedure.Name).
		Str("tooth_status", string(status)).
		Msg("Procedure applied")
	return s.toothProcedures.GetByID(ctx, toothProcedure.ID)
}

// Remove deletes a recorded procedure and recomputes the consultation total.
// The tooth status is left as it is.
func (s *ToothProcedureService) Remove(ctx context.Context, id uint) error {
	return s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.toothProcedures.WithTx(tx)
		toothProcedure, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if toothProcedure == nil {
			return notFound("tooth procedure")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.billing.RecalculateTotalCost(ctx, tx, toothProcedure.ConsultationID)
		return err
	})
}

func (s *ToothProcedureService) ListByConsultation(ctx context.Context, consultationID uint) ([]models.ToothProcedure, error) {
	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}
	return s.toothProcedures.ListByConsultation(ctx, consultationID)
}

// TeethForConsultation lists the teeth that may be selected for the consultation:
// only the consultation patient's teeth, ordered by ADA number.
func (s *ToothProcedureService) TeethForConsultation(ctx context.Context, consultationID uint) ([]ToothOption, error) {
	consultation, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, notFound("consultation")
	}

	teeth, err := s.teeth.ListByPatient(ctx, consultation.PatientID)
	if err != nil {
		return nil, err
	}
	options := make([]ToothOption, 0, len(teeth))
	for _, tooth := range teeth {
		options = append(options, ToothOption{
			ID:     tooth.ID,
			Number: tooth.Number,
			Status: tooth.Status,
			Label:  tooth.Label(),
		})
	}
	return options, nil
}
