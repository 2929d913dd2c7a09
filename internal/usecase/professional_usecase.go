package usecase

import (
	"context"
	"errors"
	"time"

	"lastwill-backend/internal/converter"
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/delivery/http/middleware"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"
	"lastwill-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound        = errors.New("professional profile not found")
	ErrInvalidTimeFormat      = errors.New("invalid time format, use HH:MM")
	ErrProfileNotApproved     = errors.New("professional profile is not approved")
	ErrTemplateIntervalOrder  = errors.New("interval end time must be after start time")
	ErrBlockedDateNotFound    = errors.New("blocked date not found")
	ErrBlockedRangeInvalid    = errors.New("blocked range end date must not precede start date")
	ErrApprovalAlreadyDecided = errors.New("approval status already decided")
)

type ProfessionalUsecase interface {
	GetMyProfile(ctx context.Context) (*dto.ProfessionalProfileResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfessionalProfileResponse, error)
	UpdateMyProfile(ctx context.Context, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error)

	SetTemplate(ctx context.Context, req *dto.SetTemplateRequest) (*dto.TemplateResponse, error)
	GetMyTemplate(ctx context.Context) (*dto.TemplateResponse, error)

	AddBlockedDate(ctx context.Context, req *dto.CreateBlockedDateRequest) (*dto.BlockedDateResponse, error)
	DeleteBlockedDate(ctx context.Context, blockedDateID int) error
	GetMyBlockedDates(ctx context.Context) (*dto.BlockedDateListResponse, error)

	GetAvailableSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*dto.SlotListResponse, error)

	// Admin operations
	ListProfessionals(ctx context.Context) (*dto.ProfessionalListResponse, error)
	Approve(ctx context.Context, userID uuid.UUID, req *dto.ApproveProfessionalRequest) (*dto.ProfessionalProfileResponse, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

type professionalUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	professionalRepo repository.ProfessionalProfileRepository
	availabilityRepo repository.AvailabilityRepository
	userRepo         repository.UserRepository
	availability     AvailabilityUsecase
	geo              service.GeoResolver
	auditService     service.AuditService
	notifier         service.Notifier
}

func NewProfessionalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	professionalRepo repository.ProfessionalProfileRepository,
	availabilityRepo repository.AvailabilityRepository,
	userRepo repository.UserRepository,
	availability AvailabilityUsecase,
	geo service.GeoResolver,
	auditService service.AuditService,
	notifier service.Notifier,
) ProfessionalUsecase {
	return &professionalUsecase{
		db:               db,
		log:              log,
		professionalRepo: professionalRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		availability:     availability,
		geo:              geo,
		auditService:     auditService,
		notifier:         notifier,
	}
}

func (u *professionalUsecase) GetMyProfile(ctx context.Context) (*dto.ProfessionalProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	return u.findProfile(userID)
}

// GetProfile is the public profile view; only approved profiles are visible
func (u *professionalUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfessionalProfileResponse, error) {
	response, err := u.findProfile(userID)
	if err != nil {
		return nil, err
	}
	if response.ApprovalStatus != string(entity.ApprovalApproved) {
		return nil, ErrProfileNotFound
	}
	return response, nil
}

// UpdateMyProfile applies partial profile changes. A postal code change
// re-resolves the office coordinates; when resolution fails the old
// coordinates are zeroed so stale positions never feed matching.
func (u *professionalUsecase) UpdateMyProfile(ctx context.Context, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	profile, err := u.professionalRepo.FindByUserID(u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if req.PostalCode != "" && req.PostalCode != profile.PostalCode {
		profile.PostalCode = req.PostalCode
		if coords, err := u.geo.Resolve(ctx, req.PostalCode); err != nil {
			u.log.Warnf("Failed to resolve postal code %s on update: %+v", req.PostalCode, err)
			profile.Latitude = 0
			profile.Longitude = 0
		} else {
			profile.Latitude = coords.Latitude
			profile.Longitude = coords.Longitude
		}
	}
	if req.OfficeRadiusKm != nil {
		profile.OfficeRadiusKm = *req.OfficeRadiusKm
	}
	if req.HomeVisit != nil {
		profile.HomeVisit = *req.HomeVisit
	}
	if req.HomeVisitRadiusKm != nil {
		profile.HomeVisitRadiusKm = *req.HomeVisitRadiusKm
	}
	if req.Biography != nil {
		profile.Biography = *req.Biography
	}
	if req.ConsultationFee != "" {
		fee, err := decimal.NewFromString(req.ConsultationFee)
		if err != nil || fee.IsNegative() {
			return nil, ErrInvalidFee
		}
		profile.ConsultationFee = fee
	}

	if err := u.professionalRepo.Update(u.db.WithContext(ctx), profile); err != nil {
		u.log.Warnf("Failed to update profile %s: %+v", userID, err)
		return nil, err
	}

	if req.FullName != "" {
		user, err := u.userRepo.FindByID(u.db, userID)
		if err == nil && user != nil {
			user.FullName = req.FullName
			if err := u.userRepo.Update(u.db.WithContext(ctx), user); err != nil {
				u.log.Warnf("Failed to update user name %s: %+v", userID, err)
			}
		}
	}

	u.audit(ctx, &userID, entity.AuditActionProfessionalUpdate, userID, nil)

	return u.findProfile(userID)
}

// SetTemplate replaces the professional's whole weekly template. The
// template is one unit; partial edits go through a full replace.
func (u *professionalUsecase) SetTemplate(ctx context.Context, req *dto.SetTemplateRequest) (*dto.TemplateResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	intervals := make([]entity.TemplateInterval, len(req.Intervals))
	for i, iv := range req.Intervals {
		start, err := time.Parse("15:04", iv.StartTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		end, err := time.Parse("15:04", iv.EndTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if !end.After(start) {
			return nil, ErrTemplateIntervalOrder
		}

		intervals[i] = entity.TemplateInterval{
			ProfessionalID: userID,
			Weekday:        time.Weekday(iv.Weekday),
			StartTime:      iv.StartTime,
			EndTime:        iv.EndTime,
			SlotMinutes:    iv.SlotMinutes,
		}
	}

	if err := u.availabilityRepo.ReplaceTemplate(ctx, u.db, userID, intervals); err != nil {
		u.log.Warnf("Failed to replace template for %s: %+v", userID, err)
		return nil, err
	}

	u.audit(ctx, &userID, entity.AuditActionTemplateUpdate, userID, entity.JSON{
		"intervals": len(intervals),
	})

	return converter.TemplateToResponse(intervals), nil
}

func (u *professionalUsecase) GetMyTemplate(ctx context.Context) (*dto.TemplateResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	intervals, err := u.availabilityRepo.FindTemplate(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find template for %s: %+v", userID, err)
		return nil, err
	}

	return converter.TemplateToResponse(intervals), nil
}

func (u *professionalUsecase) AddBlockedDate(ctx context.Context, req *dto.CreateBlockedDateRequest) (*dto.BlockedDateResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return nil, ErrBlockedRangeInvalid
	}

	blocked := &entity.BlockedDate{
		ProfessionalID: userID,
		StartDate:      startDate,
		EndDate:        endDate,
		Reason:         req.Reason,
	}

	if err := u.availabilityRepo.CreateBlockedDate(ctx, u.db, blocked); err != nil {
		u.log.Warnf("Failed to create blocked date for %s: %+v", userID, err)
		return nil, err
	}

	u.audit(ctx, &userID, entity.AuditActionBlockedDateCreate, userID, entity.JSON{
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})

	return &dto.BlockedDateResponse{
		ID:        blocked.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    blocked.Reason,
	}, nil
}

func (u *professionalUsecase) DeleteBlockedDate(ctx context.Context, blockedDateID int) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	rows, err := u.availabilityRepo.DeleteBlockedDate(ctx, u.db, userID, blockedDateID)
	if err != nil {
		u.log.Warnf("Failed to delete blocked date %d: %+v", blockedDateID, err)
		return err
	}
	if rows == 0 {
		return ErrBlockedDateNotFound
	}

	u.audit(ctx, &userID, entity.AuditActionBlockedDateDelete, userID, entity.JSON{
		"blocked_date_id": blockedDateID,
	})
	return nil
}

func (u *professionalUsecase) GetMyBlockedDates(ctx context.Context) (*dto.BlockedDateListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	now := time.Now().UTC()
	blocked, err := u.availabilityRepo.FindBlockedDates(ctx, u.db, userID, now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0))
	if err != nil {
		u.log.Warnf("Failed to find blocked dates for %s: %+v", userID, err)
		return nil, err
	}

	return converter.BlockedDatesToResponses(blocked), nil
}

// GetAvailableSlots is the public slot listing backed by the lazy
// availability iterator. The listing is capped; callers page with a
// narrower range instead of pulling months of slots at once.
func (u *professionalUsecase) GetAvailableSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*dto.SlotListResponse, error) {
	profile, err := u.professionalRepo.FindByUserID(u.db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", professionalID, err)
		return nil, err
	}
	if profile == nil || !profile.IsApproved() {
		return nil, ErrProfileNotFound
	}

	iter, err := u.availability.AvailableSlots(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	windows, err := iter.Collect(ctx, maxSlotListing)
	if err != nil {
		return nil, err
	}

	return converter.SlotsToResponses(windows), nil
}

// maxSlotListing bounds one public slot listing response
const maxSlotListing = 500

func (u *professionalUsecase) ListProfessionals(ctx context.Context) (*dto.ProfessionalListResponse, error) {
	profiles, err := u.professionalRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list professionals: %+v", err)
		return nil, err
	}

	return &dto.ProfessionalListResponse{
		Professionals: converter.ProfessionalProfilesToResponses(profiles),
		Total:         len(profiles),
	}, nil
}

// Approve records the admin vetting decision and tells the professional
func (u *professionalUsecase) Approve(ctx context.Context, userID uuid.UUID, req *dto.ApproveProfessionalRequest) (*dto.ProfessionalProfileResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	profile, err := u.professionalRepo.FindByUserID(u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.ApprovalStatus != entity.ApprovalPending {
		return nil, ErrApprovalAlreadyDecided
	}

	status := entity.ApprovalRejected
	subject := "Profile rejected"
	if req.Approve {
		status = entity.ApprovalApproved
		subject = "Profile approved"
	}

	rows, err := u.professionalRepo.UpdateApprovalStatus(ctx, u.db, userID, status)
	if err != nil {
		u.log.Warnf("Failed to update approval status for %s: %+v", userID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrApprovalAlreadyDecided
	}

	u.audit(ctx, &adminID, entity.AuditActionProfessionalApprove, userID, entity.JSON{
		"status": string(status),
		"reason": req.Reason,
	})

	if user, err := u.userRepo.FindByID(u.db, userID); err == nil && user != nil {
		u.notifier.Notify(ctx, user.Email, subject, req.Reason)
	}

	u.log.Infof("Professional %s: id=%s, by=%s", status, userID, adminID)
	return u.findProfile(userID)
}

// Deactivate disables a professional's account; active appointments are
// untouched but the profile stops matching immediately
func (u *professionalUsecase) Deactivate(ctx context.Context, userID uuid.UUID) error {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	user, err := u.userRepo.FindByID(u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	inactive := false
	user.IsActive = &inactive
	if err := u.userRepo.Update(u.db.WithContext(ctx), user); err != nil {
		u.log.Warnf("Failed to deactivate user %s: %+v", userID, err)
		return err
	}

	u.audit(ctx, &adminID, entity.AuditActionProfessionalUpdate, userID, entity.JSON{
		"deactivated": true,
	})
	return nil
}

func (u *professionalUsecase) findProfile(userID uuid.UUID) (*dto.ProfessionalProfileResponse, error) {
	profile, err := u.professionalRepo.FindByUserID(u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return converter.ProfessionalProfileToResponse(profile), nil
}

func (u *professionalUsecase) audit(ctx context.Context, actorID *uuid.UUID, action string, subjectID uuid.UUID, metadata entity.JSON) {
	if err := u.auditService.LogAction(ctx, u.db, actorID, action, "professional_profile", subjectID.String(), metadata); err != nil {
		u.log.Warnf("Failed to audit %s for %s: %+v", action, subjectID, err)
	}
}
