package repository

import (
	"context"
	"errors"
	"time"

	"lastwill-backend/internal/domain/entity"
	domainRepo "lastwill-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// busyStatuses are the appointment states that consume a slot
var busyStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusConfirmed,
	entity.AppointmentStatusInProgress,
}

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("Professional.User").
		Preload("Client.User").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Preload("Professional.User").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByProfessionalID(ctx context.Context, db *gorm.DB, professionalID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Preload("Client.User").
		Where("professional_id = ?", professionalID).
		Order("requested_start ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBusyWindows(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, from, to time.Time) ([]entity.TimeWindow, error) {
	var windows []entity.TimeWindow
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Select(`confirmed_start AS start, confirmed_end AS "end"`).
		Where("professional_id = ? AND status IN ?", professionalID, busyStatuses).
		Where("confirmed_start < ? AND confirmed_end > ?", to, from).
		Order("confirmed_start ASC").
		Scan(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

// ConfirmIfNoConflict is the check-and-set closing the double-booking race:
// the status guard and the overlap check run inside one conditional UPDATE,
// so of two concurrent confirms for overlapping slots exactly one wins.
func (r *appointmentRepository) ConfirmIfNoConflict(ctx context.Context, db *gorm.DB, id, professionalID uuid.UUID, start, end time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusPending).
		Where(`NOT EXISTS (
			SELECT 1 FROM appointments other
			WHERE other.professional_id = ?
			  AND other.id <> ?
			  AND other.status IN ?
			  AND other.confirmed_start < ?
			  AND other.confirmed_end > ?
		)`, professionalID, id, busyStatuses, end, start).
		Updates(map[string]interface{}{
			"status":          entity.AppointmentStatusConfirmed,
			"confirmed_start": start,
			"confirmed_end":   end,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateStatusIf(ctx context.Context, db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["cancelled_reason"] = reason
	}
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CompleteWithWill finishes the appointment and persists the will record in
// one transaction. Either both rows change or neither does.
func (r *appointmentRepository) CompleteWithWill(ctx context.Context, db *gorm.DB, id uuid.UUID, payload entity.JSON) (*entity.WillRecord, error) {
	var will *entity.WillRecord

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment entity.Appointment
		if err := tx.Where("id = ?", id).First(&appointment).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.Appointment{}).
			Where("id = ? AND status = ?", id, entity.AppointmentStatusInProgress).
			Update("status", entity.AppointmentStatusCompleted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		will = &entity.WillRecord{
			AppointmentID:  appointment.ID,
			ClientID:       appointment.ClientID,
			ProfessionalID: appointment.ProfessionalID,
			Payload:        payload,
			Status:         entity.WillStatusActive,
		}
		return tx.Create(will).Error
	})
	if err != nil {
		return nil, err
	}
	return will, nil
}

func (r *appointmentRepository) ExpireStalePending(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("status = ? AND created_at < ?", entity.AppointmentStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":           entity.AppointmentStatusCancelled,
			"cancelled_reason": "expired",
		})
	return result.RowsAffected, result.Error
}
