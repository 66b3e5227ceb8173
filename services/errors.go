package services

import (
	"context"
	"errors"
	"fmt"

	"GlobalDent/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrProcedureInUse         = errors.New("procedure is referenced by recorded tooth procedures")
	ErrValidation             = errors.New("validation failed")
	ErrIncompleteOdontogram   = errors.New("clinical history has an incomplete odontogram")
	ErrToothNotInConsultation = errors.New("tooth does not belong to the consultation's patient")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

// ValidationError carries field level validation errors and matches ErrValidation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// ensureOperator rejects an explicit operator id that names no user.
func ensureOperator(ctx context.Context, users repositories.UserRepository, operatorID *uint) error {
	if operatorID == nil {
		return nil
	}
	exists, err := users.UserExists(ctx, *operatorID)
	if err != nil {
		return err
	}
	if !exists {
		return validationError(validation.Errors{
			"user_id": fmt.Errorf("operator %d does not exist", *operatorID),
		})
	}
	return nil
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// translateDBError maps constraint violations reported by gorm onto service errors.
func translateDBError(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", conflictMsg, ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", conflictMsg, ErrConflict)
	default:
		return err
	}
}
