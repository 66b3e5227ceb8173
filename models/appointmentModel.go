package models

import (
	"time"
)

// AppointmentStatus tracks a scheduled visit from booking to outcome.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentAttended  AppointmentStatus = "attended"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment model
type Appointment struct {
	ID             uint              `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID      uint              `gorm:"column:patient_id;not null;index" json:"patient_id"`
	UserID         *uint             `gorm:"column:user_id;uniqueIndex:idx_appointment_slot" json:"user_id"`
	Date           string            `gorm:"column:date;size:10;not null;index;uniqueIndex:idx_appointment_slot" json:"date"`
	StartTime      string            `gorm:"column:start_time;size:5;not null;uniqueIndex:idx_appointment_slot" json:"start_time"`
	EndTime        string            `gorm:"column:end_time;size:5;not null" json:"end_time"`
	Reason         string            `gorm:"column:reason;size:200;not null" json:"reason"`
	Notes          string            `gorm:"column:notes;type:text" json:"notes"`
	Status         AppointmentStatus `gorm:"column:status;size:10;check:status IN ('pending', 'confirmed', 'attended', 'cancelled');not null" json:"status"`
	ConsultationID *uint             `gorm:"column:consultation_id;uniqueIndex" json:"consultation_id"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient        *Patient          `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	User           *User             `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"operator,omitempty"`
	Consultation   *Consultation     `gorm:"foreignKey:ConsultationID;references:ID;constraint:OnDelete:SET NULL" json:"consultation,omitempty"`
	Duration       int               `gorm:"-" json:"duration_minutes"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// DurationMinutes returns the scheduled length of the appointment, or 0 if
// either time is malformed.
func (a Appointment) DurationMinutes() int {
	start, err := time.Parse(TimeLayout, a.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(TimeLayout, a.EndTime)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
