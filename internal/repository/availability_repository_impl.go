package repository

import (
	"context"
	"time"

	"lastwill-backend/internal/domain/entity"
	domainRepo "lastwill-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) FindTemplate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID) ([]entity.TemplateInterval, error) {
	var intervals []entity.TemplateInterval
	err := db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

// ReplaceTemplate swaps the whole weekly template in one transaction so the
// professional never holds more than one template.
func (r *availabilityRepository) ReplaceTemplate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, intervals []entity.TemplateInterval) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", professionalID).Delete(&entity.TemplateInterval{}).Error; err != nil {
			return err
		}
		if len(intervals) == 0 {
			return nil
		}
		for i := range intervals {
			intervals[i].ProfessionalID = professionalID
		}
		return tx.Create(&intervals).Error
	})
}

func (r *availabilityRepository) CreateBlockedDate(ctx context.Context, db *gorm.DB, blocked *entity.BlockedDate) error {
	return db.WithContext(ctx).Create(blocked).Error
}

func (r *availabilityRepository) DeleteBlockedDate(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, id int) (int64, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", id, professionalID).
		Delete(&entity.BlockedDate{})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) FindBlockedDates(ctx context.Context, db *gorm.DB, professionalID uuid.UUID, from, to time.Time) ([]entity.BlockedDate, error) {
	var blocked []entity.BlockedDate
	err := db.WithContext(ctx).
		Where("professional_id = ? AND start_date <= ? AND end_date >= ?", professionalID, to, from).
		Order("start_date ASC").
		Find(&blocked).Error
	if err != nil {
		return nil, err
	}
	return blocked, nil
}
