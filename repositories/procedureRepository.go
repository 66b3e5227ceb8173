package repositories

import (
	"GlobalDent/cache"
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ProcedureCacheExpiry = 24 * time.Hour
)

type ProcedureRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewProcedureRepository(db *gorm.DB, cache *cache.Cache) *ProcedureRepository {
	return &ProcedureRepository{db: db, cache: cache}
}

func (r *ProcedureRepository) WithTx(tx *gorm.DB) *ProcedureRepository {
	return &ProcedureRepository{db: tx, cache: r.cache}
}

func (r *ProcedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	if err := r.db.WithContext(ctx).Create(procedure).Error; err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}
	return r.invalidate(ctx, procedure.ID)
}

func (r *ProcedureRepository) GetByID(ctx context.Context, id uint) (*models.Procedure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := cache.ProcedureKey(id)
	var cached models.Procedure
	if hit, err := r.cache.Get(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Uint("procedure_id", id).Msg("Failed to get procedure from cache")
	} else if hit {
		return &cached, nil
	}

	var procedure models.Procedure
	err := r.db.WithContext(ctx).First(&procedure, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get procedure: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, procedure, ProcedureCacheExpiry); err != nil {
		log.Warn().Err(err).Uint("procedure_id", id).Msg("Failed to set procedure in cache")
	}
	return &procedure, nil
}

// GetAll returns the catalog ordered by name.
func (r *ProcedureRepository) GetAll(ctx context.Context) ([]models.Procedure, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.Procedure
	if hit, err := r.cache.Get(ctx, cache.ProcedureListKey, &cached); err != nil {
		log.Warn().Err(err).Msg("Failed to get procedures from cache")
	} else if hit {
		return cached, nil
	}

	var procedures []models.Procedure
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&procedures).Error; err != nil {
		return nil, fmt.Errorf("failed to get procedures: %w", err)
	}

	if err := r.cache.Set(ctx, cache.ProcedureListKey, procedures, ProcedureCacheExpiry); err != nil {
		log.Warn().Err(err).Msg("Failed to set procedures in cache")
	}
	return procedures, nil
}

func (r *ProcedureRepository) Update(ctx context.Context, procedure *models.Procedure) error {
	err := r.db.WithContext(ctx).Model(&models.Procedure{ID: procedure.ID}).
		Select("name", "description", "base_price", "resulting_status").
		Updates(procedure).Error
	if err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}
	return r.invalidate(ctx, procedure.ID)
}

func (r *ProcedureRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Procedure{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete procedure: %w", err)
	}
	return r.invalidate(ctx, id)
}

// NameTaken reports whether another catalog entry already uses name, ignoring case.
func (r *ProcedureRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Procedure{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check procedure name: %w", err)
	}
	return count > 0, nil
}

// CountUsage reports how many tooth procedures reference the catalog entry.
func (r *ProcedureRepository) CountUsage(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ToothProcedure{}).Where("procedure_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count procedure usage: %w", err)
	}
	return count, nil
}

func (r *ProcedureRepository) invalidate(ctx context.Context, id uint) error {
	return r.cache.Delete(ctx, cache.ProcedureKey(id), cache.ProcedureListKey)
}
