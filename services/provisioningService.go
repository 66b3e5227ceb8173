package services

import (
	"GlobalDent/config"
	"GlobalDent/metrics"
	"GlobalDent/models"
	"GlobalDent/repositories"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProvisioningService guarantees that every patient owns exactly one clinical
// history charting all 32 teeth.
type ProvisioningService struct {
	tx        *repositories.TxManager
	patients  *repositories.PatientRepository
	histories *repositories.ClinicalHistoryRepository
	teeth     *repositories.ToothRepository
	policy    string
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewProvisioningService(
	tx *repositories.TxManager,
	patients *repositories.PatientRepository,
	histories *repositories.ClinicalHistoryRepository,
	teeth *repositories.ToothRepository,
	policy string,
	m *metrics.Metrics,
) *ProvisioningService {
	if policy == "" {
		policy = config.PartialPolicyTopUp
	}
	return &ProvisioningService{
		tx:        tx,
		patients:  patients,
		histories: histories,
		teeth:     teeth,
		policy:    policy,
		metrics:   m,
		now:       time.Now,
	}
}

// EnsureHistoryAndTeeth creates whatever part of the patient's history and
// odontogram is missing. Running it again is a no-op.
func (s *ProvisioningService) EnsureHistoryAndTeeth(ctx context.Context, patientID uint) (*models.ClinicalHistory, error) {
	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("patient")
	}

	var history *models.ClinicalHistory
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		history, err = s.ProvisionTx(ctx, tx, patientID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ProvisionTx is EnsureHistoryAndTeeth bound to the caller's transaction.
// fields, when set, seeds a newly created history.
func (s *ProvisioningService) ProvisionTx(ctx context.Context, tx *gorm.DB, patientID uint, fields *models.ClinicalHistory) (*models.ClinicalHistory, error) {
	histories := s.histories.WithTx(tx)
	teeth := s.teeth.WithTx(tx)
	logger := log.With().Uint("patient_id", patientID).Logger()

	outcome := metrics.OutcomeReused
	history, err := histories.GetByPatientID(ctx, patientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load clinical history")
		return nil, err
	}
	if history == nil {
		history = s.newHistory(patientID, fields)
		if err := histories.Create(ctx, history); err != nil {
			logger.Error().Err(err).Msg("Failed to create clinical history")
			return nil, translateDBError(err, "patient already has a clinical history")
		}
		outcome = metrics.OutcomeCreated
	}

	numbers, err := teeth.Numbers(ctx, history.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count teeth")
		return nil, err
	}

	switch n := len(numbers); {
	case n == 0:
		if err := teeth.CreateBatch(ctx, missingTeeth(history.ID, nil)); err != nil {
			logger.Error().Err(err).Msg("Failed to create teeth")
			return nil, translateDBError(err, "tooth already charted")
		}
		outcome = metrics.OutcomeCreated
	case n >= models.TeethPerHistory:
	default:
		switch s.policy {
		case config.PartialPolicyReject:
			s.metrics.Provisioned(metrics.OutcomeRejected)
			logger.Warn().Int("teeth", n).Msg("Refusing to provision an incomplete odontogram")
			return nil, fmt.Errorf("history %d has %d of %d teeth: %w", history.ID, n, models.TeethPerHistory, ErrIncompleteOdontogram)
		case config.PartialPolicyWarn:
			logger.Warn().Int("teeth", n).Msg("Clinical history has an incomplete odontogram")
			outcome = metrics.OutcomeIncomplete
		default:
			missing := missingTeeth(history.ID, numbers)
			if err := teeth.CreateBatch(ctx, missing); err != nil {
				logger.Error().Err(err).Msg("Failed to top up teeth")
				return nil, translateDBError(err, "tooth already charted")
			}
			logger.Info().Int("added", len(missing)).Msg("Topped up incomplete odontogram")
			outcome = metrics.OutcomeToppedUp
		}
	}

	history.Teeth, err = teeth.ListByHistory(ctx, history.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.Provisioned(outcome)
	return history, nil
}

func (s *ProvisioningService) newHistory(patientID uint, fields *models.ClinicalHistory) *models.ClinicalHistory {
	history := &models.ClinicalHistory{}
	if fields != nil {
		*history = *fields
		history.ID = 0
		history.Teeth = nil
	}
	history.PatientID = patientID
	if history.OpeningDate == "" {
		history.OpeningDate = s.now().UTC().Format(models.DateLayout)
	}
	return history
}

// missingTeeth returns healthy teeth for every ADA number not in present.
func missingTeeth(historyID uint, present []int) []models.Tooth {
	have := make(map[int]bool, len(present))
	for _, n := range present {
		have[n] = true
	}
	teeth := make([]models.Tooth, 0, models.TeethPerHistory-len(present))
	for n := 1; n <= models.TeethPerHistory; n++ {
		if have[n] {
			continue
		}
		teeth = append(teeth, models.Tooth{HistoryID: historyID, Number: n, Status: models.ToothHealthy})
	}
	return teeth
}
