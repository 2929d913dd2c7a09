package repository

import (
	"context"

	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfessionalProfileRepository interface {
	Create(db *gorm.DB, profile *entity.ProfessionalProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ProfessionalProfile, error)
	FindAll(db *gorm.DB) ([]entity.ProfessionalProfile, error)
	// FindCandidates returns APPROVED, active professionals compatible with
	// the filter's qualification and home-visit requirement. Geographic and
	// availability filtering happen in the matching pipeline.
	FindCandidates(ctx context.Context, db *gorm.DB, filter *entity.CandidateFilter) ([]entity.ProfessionalProfile, error)
	Update(db *gorm.DB, profile *entity.ProfessionalProfile) error
	UpdateApprovalStatus(ctx context.Context, db *gorm.DB, userID uuid.UUID, status entity.ApprovalStatus) (int64, error)
}
