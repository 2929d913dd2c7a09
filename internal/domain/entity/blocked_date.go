package entity

import (
	"time"

	"github.com/google/uuid"
)

// BlockedDate marks a calendar date or inclusive date range during which a
// professional is unavailable. A blocked date always wins over the weekly
// template for the dates it covers.
type BlockedDate struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfessionalID uuid.UUID `gorm:"type:uuid;not null;index" json:"professional_id"`
	StartDate      time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null;index" json:"end_date"`
	Reason         string    `gorm:"type:varchar(100)" json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Professional ProfessionalProfile `gorm:"foreignKey:ProfessionalID" json:"professional,omitempty"`
}

func (BlockedDate) TableName() string {
	return "blocked_dates"
}

// Covers checks if the blocked range includes the given calendar date.
// Comparison is at date granularity; both ends are inclusive.
func (b *BlockedDate) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	start := b.StartDate.Truncate(24 * time.Hour)
	end := b.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}
