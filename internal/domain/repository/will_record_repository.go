package repository

import (
	"context"

	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WillRecordRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.WillRecord, error)
	FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.WillRecord, error)
	FindByAppointmentID(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID) (*entity.WillRecord, error)
	// SearchByClientName finds wills whose client matches the given full
	// name (case-insensitive, exact). Used for loose death-notification
	// lookups; more than one hit surfaces as a disambiguation result.
	SearchByClientName(ctx context.Context, db *gorm.DB, fullName string) ([]entity.WillRecord, error)

	// BeginExecution persists the death notification and, in the same
	// transaction, conditionally moves the will ACTIVE -> EXECUTING.
	// stateChanged is false when the will was already EXECUTING/EXECUTED;
	// the notification row is still written for the paper trail.
	BeginExecution(ctx context.Context, db *gorm.DB, willID uuid.UUID, notification *entity.DeathNotification) (stateChanged bool, err error)

	// MarkExecuted conditionally moves EXECUTING -> EXECUTED. Returns
	// affected rows.
	MarkExecuted(ctx context.Context, db *gorm.DB, willID uuid.UUID) (int64, error)
}
