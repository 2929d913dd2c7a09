package entity

import (
	"time"

	"github.com/google/uuid"
)

// TemplateInterval is one open interval in a professional's weekly
// availability template. The rows for all weekdays together form the single
// template owned by the professional.
type TemplateInterval struct {
	ID             int          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfessionalID uuid.UUID    `gorm:"type:uuid;not null;index" json:"professional_id"`
	Weekday        time.Weekday `gorm:"not null" json:"weekday"` // 0 = Sunday
	StartTime      string       `gorm:"type:time;not null" json:"start_time"`
	EndTime        string       `gorm:"type:time;not null" json:"end_time"`
	SlotMinutes    int          `gorm:"not null;default:30" json:"slot_minutes"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Professional ProfessionalProfile `gorm:"foreignKey:ProfessionalID" json:"professional,omitempty"`
}

func (TemplateInterval) TableName() string {
	return "availability_templates"
}
