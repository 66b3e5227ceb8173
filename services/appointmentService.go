package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type AppointmentInput struct {
	PatientID      uint                     `json:"patient_id"`
	UserID         *uint                    `json:"user_id"`
	Date           string                   `json:"date"`
	StartTime      string                   `json:"start_time"`
	EndTime        string                   `json:"end_time"`
	Reason         string                   `json:"reason"`
	Notes          string                   `json:"notes"`
	Status         models.AppointmentStatus `json:"status"`
	ConsultationID *uint                    `json:"consultation_id"`
}

type AppointmentService struct {
	appointments  *repositories.AppointmentRepository
	patients      *repositories.PatientRepository
	consultations *repositories.ConsultationRepository
	users         repositories.UserRepository
}

func NewAppointmentService(
	appointments *repositories.AppointmentRepository,
	patients *repositories.PatientRepository,
	consultations *repositories.ConsultationRepository,
	users repositories.UserRepository,
) *AppointmentService {
	return &AppointmentService{appointments: appointments, patients: patients, consultations: consultations, users: users}
}

// Create books an appointment. Without an explicit operator the authenticated
// operator in ctx is used.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	appointment := appointmentFromInput(in)
	if appointment.UserID == nil {
		appointment.UserID, _ = utils.OperatorFromContext(ctx)
	}
	if err := s.check(ctx, appointment); err != nil {
		return nil, err
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, translateDBError(err, "appointment slot already taken")
	}
	log.Info().
		Uint("appointment_id", appointment.ID).
		Str("date", appointment.Date).
		Str("start_time", appointment.StartTime).
		Msg("Appointment booked")
	return s.Get(ctx, appointment.ID)
}

// Update replaces the appointment fields. A nil operator keeps the current one.
func (s *AppointmentService) Update(ctx context.Context, id uint, in AppointmentInput) (*models.Appointment, error) {
	current, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFound("appointment")
	}

	appointment := appointmentFromInput(in)
	appointment.ID = id
	if appointment.UserID == nil {
		appointment.UserID = current.UserID
	}
	if err := s.check(ctx, appointment); err != nil {
		return nil, err
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, translateDBError(err, "appointment slot already taken")
	}
	return s.Get(ctx, id)
}

func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, notFound("appointment")
	}
	appointment.Duration = appointment.DurationMinutes()
	return appointment, nil
}

// List returns the calendar ordered by date and start time.
func (s *AppointmentService) List(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].Duration = appointments[i].DurationMinutes()
	}
	return appointments, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.appointments.Delete(ctx, id)
}

// check validates the appointment and its references before anything is written.
func (s *AppointmentService) check(ctx context.Context, appointment *models.Appointment) error {
	if err := utils.ValidateAppointment(*appointment); err != nil {
		return validationError(err)
	}

	patient, err := s.patients.GetByID(ctx, appointment.PatientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return notFound("patient")
	}
	if err := ensureOperator(ctx, s.users, appointment.UserID); err != nil {
		return err
	}

	if appointment.ConsultationID != nil {
		consultation, err := s.consultations.GetByID(ctx, *appointment.ConsultationID)
		if err != nil {
			return err
		}
		if consultation == nil {
			return notFound("consultation")
		}
		if consultation.PatientID != appointment.PatientID {
			return validationError(fmt.Errorf("consultation %d belongs to another patient", consultation.ID))
		}
		linked, err := s.appointments.ConsultationLinked(ctx, consultation.ID, appointment.ID)
		if err != nil {
			return err
		}
		if linked {
			return fmt.Errorf("consultation %d is already linked to an appointment: %w", consultation.ID, ErrConflict)
		}
	}

	taken, err := s.appointments.SlotTaken(ctx, appointment.Date, appointment.StartTime, appointment.UserID, appointment.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("an appointment already starts at %s %s for this operator: %w",
			appointment.Date, appointment.StartTime, ErrConflict)
	}
	return nil
}

func appointmentFromInput(in AppointmentInput) *models.Appointment {
	status := in.Status
	if status == "" {
		status = models.AppointmentPending
	}
	return &models.Appointment{
		PatientID:      in.PatientID,
		UserID:         in.UserID,
		Date:           strings.TrimSpace(in.Date),
		StartTime:      strings.TrimSpace(in.StartTime),
		EndTime:        strings.TrimSpace(in.EndTime),
		Reason:         strings.TrimSpace(in.Reason),
		Notes:          strings.TrimSpace(in.Notes),
		Status:         status,
		ConsultationID: in.ConsultationID,
	}
}
