package models

import (
	"fmt"
	"time"
)

// TeethPerHistory is the size of the ADA permanent dentition chart.
const TeethPerHistory = 32

// ToothStatus is the clinical state of a single tooth on the odontogram.
type ToothStatus string

const (
	ToothHealthy   ToothStatus = "healthy"
	ToothDecayed   ToothStatus = "decayed"
	ToothFilled    ToothStatus = "filled"
	ToothExtracted ToothStatus = "extracted"
	ToothPending   ToothStatus = "pending"
)

var toothStatusLabels = map[ToothStatus]string{
	ToothHealthy:   "Healthy",
	ToothDecayed:   "Decayed",
	ToothFilled:    "Filled",
	ToothExtracted: "Extracted",
	ToothPending:   "Pending treatment",
}

// Valid reports whether s is one of the known tooth statuses.
func (s ToothStatus) Valid() bool {
	_, ok := toothStatusLabels[s]
	return ok
}

// Label returns the human readable status.
func (s ToothStatus) Label() string {
	if label, ok := toothStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Patient model
type Patient struct {
	ID              uint             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	FirstName       string           `gorm:"column:first_name;size:50;not null" json:"first_name"`
	PaternalSurname string           `gorm:"column:paternal_surname;size:40;not null;index" json:"paternal_surname"`
	MaternalSurname string           `gorm:"column:maternal_surname;size:40" json:"maternal_surname"`
	IDNumber        *string          `gorm:"column:id_number;size:12;uniqueIndex" json:"id_number"`
	Gender          string           `gorm:"column:gender;size:1;check:gender IN ('M', 'F', 'O');not null" json:"gender"`
	DateOfBirth     string           `gorm:"column:date_of_birth;size:10;not null;index" json:"date_of_birth"`
	PhoneNumber     string           `gorm:"column:phone_number;size:20" json:"phone_number"`
	Address         string           `gorm:"column:address;type:text" json:"address"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	History         *ClinicalHistory `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"history"`
}

func (Patient) TableName() string {
	return "patient"
}

// FullName joins the given name with both surnames, skipping an empty maternal surname.
func (p Patient) FullName() string {
	if p.MaternalSurname == "" {
		return fmt.Sprintf("%s %s", p.FirstName, p.PaternalSurname)
	}
	return fmt.Sprintf("%s %s %s", p.FirstName, p.PaternalSurname, p.MaternalSurname)
}

// ClinicalHistory model
type ClinicalHistory struct {
	ID                     uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID              uint      `gorm:"column:patient_id;not null;uniqueIndex" json:"patient_id"`
	OpeningDate            string    `gorm:"column:opening_date;size:10;not null" json:"opening_date"`
	PreexistingConditions  string    `gorm:"column:preexisting_conditions;type:text" json:"preexisting_conditions"`
	CurrentMedications     string    `gorm:"column:current_medications;type:text" json:"current_medications"`
	EmergencyContactName   string    `gorm:"column:emergency_contact_name;size:100" json:"emergency_contact_name"`
	EmergencyContactPhone  string    `gorm:"column:emergency_contact_phone;size:25" json:"emergency_contact_phone"`
	BloodType              string    `gorm:"column:blood_type;size:5" json:"blood_type"`
	OralHealthObservations string    `gorm:"column:oral_health_observations;type:text" json:"oral_health_observations"`
	Teeth                  []Tooth   `gorm:"foreignKey:HistoryID;references:ID;constraint:OnDelete:CASCADE" json:"teeth,omitempty"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ClinicalHistory) TableName() string {
	return "clinical_history"
}

// Tooth model, one of the 32 ADA-numbered teeth of a history.
type Tooth struct {
	ID        uint        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	HistoryID uint        `gorm:"column:history_id;not null;uniqueIndex:idx_history_tooth_number" json:"history_id"`
	Number    int         `gorm:"column:number_ada;not null;uniqueIndex:idx_history_tooth_number;check:number_ada BETWEEN 1 AND 32" json:"number_ada"`
	Status    ToothStatus `gorm:"column:status;size:10;check:status IN ('healthy', 'decayed', 'filled', 'extracted', 'pending');not null" json:"status"`
}

func (Tooth) TableName() string {
	return "tooth"
}

// Label is the text shown in tooth selection lists.
func (t Tooth) Label() string {
	return fmt.Sprintf("Tooth %d (%s)", t.Number, t.Status.Label())
}
