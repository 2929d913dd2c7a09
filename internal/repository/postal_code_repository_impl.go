package repository

import (
	"context"
	"errors"

	"lastwill-backend/internal/domain/entity"
	domainRepo "lastwill-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type postalCodeRepository struct{}

func NewPostalCodeRepository() domainRepo.PostalCodeRepository {
	return &postalCodeRepository{}
}

func (r *postalCodeRepository) FindByCode(ctx context.Context, db *gorm.DB, code string) (*entity.PostalCode, error) {
	var postal entity.PostalCode
	err := db.WithContext(ctx).Where("code = ?", code).First(&postal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &postal, nil
}
