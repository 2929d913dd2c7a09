package repository

import (
	"context"

	"lastwill-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PostalCodeRepository interface {
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*entity.PostalCode, error)
}
