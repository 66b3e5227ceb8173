package repositories

import (
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AppointmentFilter narrows the calendar listing. Zero values are ignored.
type AppointmentFilter struct {
	From      string
	To        string
	Status    models.AppointmentStatus
	UserID    *uint
	PatientID *uint
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) WithTx(tx *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: tx}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	err := r.db.WithContext(ctx).Omit("Patient", "User", "Consultation").Create(appointment).Error
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, role_id, created_at")
		}).
		First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, role_id, created_at")
		})
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}

	var appointments []models.Appointment
	if err := query.Order("date ASC, start_time ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	err := r.db.WithContext(ctx).Model(&models.Appointment{ID: appointment.ID}).
		Select("patient_id", "user_id", "date", "start_time", "end_time", "reason", "notes", "status", "consultation_id").
		Updates(appointment).Error
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// SlotTaken reports whether another appointment already occupies the
// (date, start time, operator) slot. excludeID skips the appointment being edited.
func (r *AppointmentRepository) SlotTaken(ctx context.Context, date, startTime string, userID *uint, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("date = ? AND start_time = ? AND id <> ?", date, startTime, excludeID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check appointment slot: %w", err)
	}
	return count > 0, nil
}

// ConsultationLinked reports whether the consultation is already attached to another appointment.
func (r *AppointmentRepository) ConsultationLinked(ctx context.Context, consultationID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("consultation_id = ? AND id <> ?", consultationID, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check consultation link: %w", err)
	}
	return count > 0, nil
}
