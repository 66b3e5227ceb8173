package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatientFullName(t *testing.T) {
	p := Patient{FirstName: "Ana", PaternalSurname: "Garcia", MaternalSurname: "Lopez"}
	assert.Equal(t, "Ana Garcia Lopez", p.FullName())
	p.MaternalSurname = ""
	assert.Equal(t, "Ana Garcia", p.FullName())
}

func TestToothStatus(t *testing.T) {
	assert.True(t, ToothPending.Valid())
	assert.False(t, ToothStatus("missing").Valid())
	assert.Equal(t, "Pending treatment", ToothPending.Label())
	assert.Equal(t, "missing", ToothStatus("missing").Label())
	assert.Equal(t, "Tooth 18 (Extracted)", Tooth{Number: 18, Status: ToothExtracted}.Label())
}

func TestAppointmentDurationMinutes(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"09:00", "09:45", 45},
		{"09:00", "09:00", 0},
		{"10:00", "09:30", -30},
		{"9am", "10:00", 0},
		{"09:00", "", 0},
	}
	for _, tt := range tests {
		a := Appointment{StartTime: tt.start, EndTime: tt.end}
		assert.Equal(t, tt.want, a.DurationMinutes(), "%s-%s", tt.start, tt.end)
	}
}
