package repository

import (
	"context"
	"errors"

	"lastwill-backend/internal/domain/entity"
	domainRepo "lastwill-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type professionalProfileRepository struct{}

func NewProfessionalProfileRepository() domainRepo.ProfessionalProfileRepository {
	return &professionalProfileRepository{}
}

func (r *professionalProfileRepository) Create(db *gorm.DB, profile *entity.ProfessionalProfile) error {
	return db.Create(profile).Error
}

func (r *professionalProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ProfessionalProfile, error) {
	var profile entity.ProfessionalProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *professionalProfileRepository) FindAll(db *gorm.DB) ([]entity.ProfessionalProfile, error) {
	var profiles []entity.ProfessionalProfile
	err := db.Preload("User").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindCandidates returns approved professionals with an active account that
// can serve the requested qualification. BOTH serves any request; a request
// for BOTH is only served by BOTH.
func (r *professionalProfileRepository) FindCandidates(ctx context.Context, db *gorm.DB, filter *entity.CandidateFilter) ([]entity.ProfessionalProfile, error) {
	query := db.WithContext(ctx).
		Joins("JOIN users ON users.id = professional_profiles.user_id").
		Where("users.is_active = ?", true).
		Where("professional_profiles.approval_status = ?", entity.ApprovalApproved)

	if filter != nil {
		if filter.Qualification == entity.QualificationBoth {
			query = query.Where("professional_profiles.qualification = ?", entity.QualificationBoth)
		} else if filter.Qualification != "" {
			query = query.Where("professional_profiles.qualification IN ?", []entity.Qualification{filter.Qualification, entity.QualificationBoth})
		}
		if filter.HomeVisit {
			query = query.Where("professional_profiles.home_visit = ?", true)
		}
	}

	var profiles []entity.ProfessionalProfile
	err := query.Preload("User").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *professionalProfileRepository) Update(db *gorm.DB, profile *entity.ProfessionalProfile) error {
	return db.Omit("User").Save(profile).Error
}

func (r *professionalProfileRepository) UpdateApprovalStatus(ctx context.Context, db *gorm.DB, userID uuid.UUID, status entity.ApprovalStatus) (int64, error) {
	// Guarded so two admins deciding at once produce one decision
	result := db.WithContext(ctx).Model(&entity.ProfessionalProfile{}).
		Where("user_id = ? AND approval_status = ?", userID, entity.ApprovalPending).
		Update("approval_status", status)
	return result.RowsAffected, result.Error
}
