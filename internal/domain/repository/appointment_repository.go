package repository

import (
	"context"
	"time"

	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Appointment, error)
	FindByProfessionalID(ctx context.Context, db *gorm.DB, professionalID uuid.UUID) ([]entity.Appointment, error)
	// FindBusyWindows returns the time windows consumed by CONFIRMED or
	// IN_PROGRESS appointments of the professional inside [from, to).
	FindBusyWindows(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, from, to time.Time) ([]entity.TimeWindow, error)

	// ConfirmIfNoConflict atomically moves a PENDING appointment to
	// CONFIRMED with the given slot, unless another CONFIRMED/IN_PROGRESS
	// appointment of the same professional overlaps it. Returns affected
	// rows: 1 = confirmed, 0 = lost (stale state or slot conflict).
	ConfirmIfNoConflict(ctx context.Context, db *gorm.DB, id, professionalID uuid.UUID, start, end time.Time) (int64, error)

	// UpdateStatusIf conditionally advances the status, guarding against
	// concurrent transitions. Returns affected rows.
	UpdateStatusIf(ctx context.Context, db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error)

	// CompleteWithWill is the single atomic write across the appointment
	// and will tables: IN_PROGRESS -> COMPLETED plus WillRecord creation,
	// both or neither.
	CompleteWithWill(ctx context.Context, db *gorm.DB, id uuid.UUID, payload entity.JSON) (*entity.WillRecord, error)

	// ExpireStalePending cancels PENDING requests created before the cutoff.
	ExpireStalePending(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
