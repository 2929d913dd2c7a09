package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClientProfile represents client-specific profile data
type ClientProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PhoneNumber string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	PostalCode  string    `gorm:"type:varchar(10)" json:"postal_code,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	DateOfBirth time.Time `gorm:"type:date" json:"date_of_birth"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:ClientID" json:"appointments,omitempty"`
}

func (ClientProfile) TableName() string {
	return "client_profiles"
}
