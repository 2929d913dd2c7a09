package repository

import (
	"context"
	"time"

	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	// FindTemplate returns the professional's weekly template intervals
	// ordered by weekday and start time.
	FindTemplate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID) ([]entity.TemplateInterval, error)
	// ReplaceTemplate swaps the professional's whole weekly template in one
	// transaction, keeping the at-most-one-template invariant.
	ReplaceTemplate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, intervals []entity.TemplateInterval) error

	CreateBlockedDate(ctx context.Context, db *gorm.DB, blocked *entity.BlockedDate) error
	DeleteBlockedDate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, id int) (int64, error)
	FindBlockedDates(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, from, to time.Time) ([]entity.BlockedDate, error)
}
