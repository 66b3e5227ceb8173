package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents an operator role
type Role struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts the clinic roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: "Admin", Description: "Full access to the clinic"},
		{Name: "Dentist", Description: "Runs consultations and records procedures"},
		{Name: "Receptionist", Description: "Handles patients, appointments and payments"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User is a clinic operator: the person recording consultations and booking appointments.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	RoleID    int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
