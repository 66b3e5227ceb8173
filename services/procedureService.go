package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProcedureService manages the procedure catalog.
type ProcedureService struct {
	repository *repositories.ProcedureRepository
}

func NewProcedureService(repository *repositories.ProcedureRepository) *ProcedureService {
	return &ProcedureService{repository: repository}
}

func (s *ProcedureService) Create(ctx context.Context, procedure *models.Procedure) (*models.Procedure, error) {
	if err := prepareProcedure(procedure); err != nil {
		return nil, err
	}
	procedure.ID = 0
	if err := s.ensureUniqueName(ctx, procedure); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, procedure); err != nil {
		return nil, translateDBError(err, fmt.Sprintf("procedure %q already exists", procedure.Name))
	}
	return procedure, nil
}

func (s *ProcedureService) Get(ctx context.Context, id uint) (*models.Procedure, error) {
	procedure, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, notFound("procedure")
	}
	return procedure, nil
}

func (s *ProcedureService) List(ctx context.Context) ([]models.Procedure, error) {
	return s.repository.GetAll(ctx)
}

// Update edits a catalog entry. Prices already charged on tooth procedures are not re-synced.
func (s *ProcedureService) Update(ctx context.Context, id uint, procedure *models.Procedure) (*models.Procedure, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := prepareProcedure(procedure); err != nil {
		return nil, err
	}
	procedure.ID = id
	if err := s.ensureUniqueName(ctx, procedure); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, procedure); err != nil {
		return nil, translateDBError(err, fmt.Sprintf("procedure %q already exists", procedure.Name))
	}
	return s.Get(ctx, id)
}

// Delete removes a catalog entry unless a tooth procedure still references it.
func (s *ProcedureService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	used, err := s.repository.CountUsage(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return fmt.Errorf("procedure %d is used by %d tooth procedures: %w", id, used, ErrProcedureInUse)
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProcedureInUse
		}
		return err
	}
	log.Info().Uint("procedure_id", id).Msg("Procedure deleted")
	return nil
}

func (s *ProcedureService) ensureUniqueName(ctx context.Context, procedure *models.Procedure) error {
	taken, err := s.repository.NameTaken(ctx, procedure.Name, procedure.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("procedure %q already exists: %w", procedure.Name, ErrConflict)
	}
	return nil
}

func prepareProcedure(procedure *models.Procedure) error {
	if procedure == nil {
		return validationError(fmt.Errorf("procedure is required"))
	}
	procedure.Name = strings.TrimSpace(procedure.Name)
	procedure.Description = strings.TrimSpace(procedure.Description)
	procedure.BasePrice = procedure.BasePrice.Round(2)
	if err := utils.ValidateProcedure(*procedure); err != nil {
		return validationError(err)
	}
	return nil
}
