package utils

import (
	"GlobalDent/models"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDate       = errors.New("must be a date in YYYY-MM-DD format")
	ErrInvalidTime       = errors.New("must be a time in HH:MM format")
	ErrInvalidPhone      = errors.New("must be a valid phone number")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrNegativeAmount    = errors.New("must not be negative")
	ErrNonPositiveAmount = errors.New("must be greater than zero")
)

var bloodTypes = []interface{}{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// NormalizePhone parses number against region and returns it in E.164 form.
// An empty number stays empty.
func NormalizePhone(number, region string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", nil
	}
	parsed, err := phonenumbers.Parse(number, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

func dateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func timeRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(models.TimeLayout, s); err != nil {
		return ErrInvalidTime
	}
	return nil
}

func phoneRule(region string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		_, err := NormalizePhone(s, region)
		return err
	}
}

func nonNegative(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func positive(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// NormalizePatient trims free-text fields in place.
func NormalizePatient(patient *models.Patient) {
	patient.FirstName = strings.TrimSpace(patient.FirstName)
	patient.PaternalSurname = strings.TrimSpace(patient.PaternalSurname)
	patient.MaternalSurname = strings.TrimSpace(patient.MaternalSurname)
	patient.Gender = strings.ToUpper(strings.TrimSpace(patient.Gender))
	patient.DateOfBirth = strings.TrimSpace(patient.DateOfBirth)
	patient.PhoneNumber = strings.TrimSpace(patient.PhoneNumber)
	patient.Address = strings.TrimSpace(patient.Address)
	if patient.IDNumber != nil {
		idNumber := strings.TrimSpace(*patient.IDNumber)
		if idNumber == "" {
			patient.IDNumber = nil
		} else {
			patient.IDNumber = &idNumber
		}
	}
}

func ValidatePatient(patient models.Patient, phoneRegion string) error {
	return validation.ValidateStruct(&patient,
		validation.Field(&patient.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&patient.PaternalSurname, validation.Required, validation.Length(1, 40)),
		validation.Field(&patient.MaternalSurname, validation.Length(0, 40)),
		validation.Field(&patient.IDNumber, validation.NilOrNotEmpty, validation.Length(1, 12)),
		validation.Field(&patient.Gender, validation.Required, validation.In("M", "F", "O")),
		validation.Field(&patient.DateOfBirth, validation.Required, validation.By(dateRule)),
		validation.Field(&patient.PhoneNumber, validation.Length(0, 20), validation.By(phoneRule(phoneRegion))),
	)
}

func ValidateHistory(history models.ClinicalHistory, phoneRegion string) error {
	return validation.ValidateStruct(&history,
		validation.Field(&history.OpeningDate, validation.By(dateRule)),
		validation.Field(&history.EmergencyContactName, validation.Length(0, 100)),
		validation.Field(&history.EmergencyContactPhone, validation.Length(0, 25), validation.By(phoneRule(phoneRegion))),
		validation.Field(&history.BloodType, validation.In(bloodTypes...)),
	)
}

func ValidateProcedure(procedure models.Procedure) error {
	return validation.ValidateStruct(&procedure,
		validation.Field(&procedure.Name, validation.Required, validation.Length(1, 150)),
		validation.Field(&procedure.BasePrice, validation.By(nonNegative)),
		validation.Field(&procedure.ResultingStatus, validation.By(func(value interface{}) error {
			status, _ := value.(*models.ToothStatus)
			if status != nil && !status.Valid() {
				return errors.New("must be a valid tooth status")
			}
			return nil
		})),
	)
}

func ValidateConsultation(reason string) error {
	return validation.Errors{
		"reason": validation.Validate(strings.TrimSpace(reason), validation.Required),
	}.Filter()
}

func ValidatePayment(payment models.Payment) error {
	return validation.ValidateStruct(&payment,
		validation.Field(&payment.Amount, validation.By(positive)),
		validation.Field(&payment.Method, validation.Required,
			validation.In(models.PaymentCash, models.PaymentCard, models.PaymentTransfer)),
	)
}

func ValidatePrice(price decimal.Decimal) error {
	return validation.Errors{
		"price_charged": validation.Validate(price, validation.By(nonNegative)),
	}.Filter()
}

// ValidateAppointment checks formats and the time window before anything is persisted.
func ValidateAppointment(appointment models.Appointment) error {
	err := validation.ValidateStruct(&appointment,
		validation.Field(&appointment.PatientID, validation.Required),
		validation.Field(&appointment.Date, validation.Required, validation.By(dateRule)),
		validation.Field(&appointment.StartTime, validation.Required, validation.By(timeRule)),
		validation.Field(&appointment.EndTime, validation.Required, validation.By(timeRule)),
		validation.Field(&appointment.Reason, validation.Required, validation.Length(1, 200)),
		validation.Field(&appointment.Status, validation.Required, validation.In(
			models.AppointmentPending, models.AppointmentConfirmed,
			models.AppointmentAttended, models.AppointmentCancelled,
		)),
	)
	if err != nil {
		return err
	}
	if appointment.DurationMinutes() <= 0 {
		return validation.Errors{"end_time": ErrEndBeforeStart}
	}
	return nil
}
