package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a payment was received.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Consultation model
type Consultation struct {
	ID              uint             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID       uint             `gorm:"column:patient_id;not null;index" json:"patient_id"`
	UserID          *uint            `gorm:"column:user_id;index" json:"user_id"`
	Date            time.Time        `gorm:"column:date;autoCreateTime;index" json:"date"`
	Reason          string           `gorm:"column:reason;type:text;not null" json:"reason"`
	Notes           string           `gorm:"column:notes;type:text" json:"notes"`
	TotalCost       decimal.Decimal  `gorm:"column:total_cost;type:numeric(10,2);not null" json:"total_cost"`
	Patient         *Patient         `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	User            *User            `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"operator,omitempty"`
	ToothProcedures []ToothProcedure `gorm:"foreignKey:ConsultationID;references:ID;constraint:OnDelete:CASCADE" json:"tooth_procedures,omitempty"`
	Payments        []Payment        `gorm:"foreignKey:ConsultationID;references:ID;constraint:OnDelete:RESTRICT" json:"payments,omitempty"`
}

func (Consultation) TableName() string {
	return "consultation"
}

// Procedure is a catalog entry describing a billable dental service.
type Procedure struct {
	ID          uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string          `gorm:"column:name;size:150;not null;uniqueIndex" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null" json:"base_price"`
	// ResultingStatus, when set, is applied to the tooth instead of the name heuristic.
	ResultingStatus *ToothStatus `gorm:"column:resulting_status;size:10" json:"resulting_status,omitempty"`
}

func (Procedure) TableName() string {
	return "procedure_catalog"
}

// ToothProcedure model, a catalog procedure applied to one tooth during a consultation.
type ToothProcedure struct {
	ID             uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConsultationID uint            `gorm:"column:consultation_id;not null;index" json:"consultation_id"`
	ToothID        uint            `gorm:"column:tooth_id;not null;index" json:"tooth_id"`
	ProcedureID    uint            `gorm:"column:procedure_id;not null;index" json:"procedure_id"`
	PriceCharged   decimal.Decimal `gorm:"column:price_charged;type:numeric(10,2);not null" json:"price_charged"`
	Notes          string          `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Tooth          *Tooth          `gorm:"foreignKey:ToothID;references:ID;constraint:OnDelete:CASCADE" json:"tooth,omitempty"`
	Procedure      *Procedure      `gorm:"foreignKey:ProcedureID;references:ID;constraint:OnDelete:RESTRICT" json:"procedure,omitempty"`
}

func (ToothProcedure) TableName() string {
	return "tooth_procedure"
}

// Payment model
type Payment struct {
	ID             uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConsultationID uint            `gorm:"column:consultation_id;not null;index" json:"consultation_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	Method         PaymentMethod   `gorm:"column:method;size:10;check:method IN ('cash', 'card', 'transfer');not null" json:"method"`
	PaymentDate    time.Time       `gorm:"column:payment_date;autoCreateTime;index" json:"payment_date"`
}

func (Payment) TableName() string {
	return "payment"
}
