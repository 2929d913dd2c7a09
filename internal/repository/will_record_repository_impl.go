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

type willRecordRepository struct{}

func NewWillRecordRepository() domainRepo.WillRecordRepository {
	return &willRecordRepository{}
}

func (r *willRecordRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.WillRecord, error) {
	var will entity.WillRecord
	err := db.WithContext(ctx).
		Preload("Client.User").
		Where("id = ?", id).
		First(&will).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &will, nil
}

func (r *willRecordRepository) FindByClientID(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]entity.WillRecord, error) {
	var wills []entity.WillRecord
	err := db.WithContext(ctx).
		Preload("Client.User").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&wills).Error
	if err != nil {
		return nil, err
	}
	return wills, nil
}

func (r *willRecordRepository) FindByAppointmentID(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID) (*entity.WillRecord, error) {
	var will entity.WillRecord
	err := db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&will).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &will, nil
}

func (r *willRecordRepository) SearchByClientName(ctx context.Context, db *gorm.DB, fullName string) ([]entity.WillRecord, error) {
	var wills []entity.WillRecord
	err := db.WithContext(ctx).
		Preload("Client.User").
		Joins("JOIN client_profiles ON client_profiles.user_id = will_records.client_id").
		Joins("JOIN users ON users.id = client_profiles.user_id").
		Where("LOWER(users.full_name) = LOWER(?)", fullName).
		Where("will_records.status <> ?", entity.WillStatusExecuted).
		Find(&wills).Error
	if err != nil {
		return nil, err
	}
	return wills, nil
}

// BeginExecution writes the notification and advances the will in one
// transaction. The ACTIVE -> EXECUTING move is a conditional update, so two
// concurrent notifications for the same will produce exactly one transition.
func (r *willRecordRepository) BeginExecution(ctx context.Context, db *gorm.DB, willID uuid.UUID, notification *entity.DeathNotification) (bool, error) {
	var stateChanged bool

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification.WillRecordID = willID
		notification.ProcessedAt = time.Now().UTC()
		if err := tx.Create(notification).Error; err != nil {
			return err
		}

		result := tx.Model(&entity.WillRecord{}).
			Where("id = ? AND status = ?", willID, entity.WillStatusActive).
			Update("status", entity.WillStatusExecuting)
		if result.Error != nil {
			return result.Error
		}
		stateChanged = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return stateChanged, nil
}

func (r *willRecordRepository) MarkExecuted(ctx context.Context, db *gorm.DB, willID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := db.WithContext(ctx).Model(&entity.WillRecord{}).
		Where("id = ? AND status = ?", willID, entity.WillStatusExecuting).
		Updates(map[string]interface{}{
			"status":      entity.WillStatusExecuted,
			"executed_at": now,
		})
	return result.RowsAffected, result.Error
}
