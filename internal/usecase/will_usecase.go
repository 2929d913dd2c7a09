package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lastwill-backend/internal/converter"
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/delivery/http/middleware"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"
	"lastwill-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrWillNotFound      = errors.New("will record not found")
	ErrWillNotOwned      = errors.New("will record does not belong to you")
	ErrDeceasedUnmatched = errors.New("death notification must identify the deceased")
)

// AmbiguousWillError rejects a death notification whose lookup matched more
// than one will. The candidates let the notifier retry with a precise
// identifier. No notification is recorded for an ambiguous report.
type AmbiguousWillError struct {
	Candidates []dto.WillCandidateSummary
}

func (e *AmbiguousWillError) Error() string {
	return fmt.Sprintf("death notification matches %d wills", len(e.Candidates))
}

type WillUsecase interface {
	NotifyDeath(ctx context.Context, req *dto.NotifyDeathRequest) (*dto.NotifyDeathResponse, error)
	MarkExecuted(ctx context.Context, willID uuid.UUID) (*dto.WillRecordResponse, error)
	GetByID(ctx context.Context, willID uuid.UUID) (*dto.WillRecordResponse, error)
	GetMyWills(ctx context.Context) (*dto.WillRecordListResponse, error)
}

type willUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	willRepo     repository.WillRecordRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
	notifier     service.Notifier
}

func NewWillUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	willRepo repository.WillRecordRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	notifier service.Notifier,
) WillUsecase {
	return &willUsecase{
		db:           db,
		log:          log,
		willRepo:     willRepo,
		userRepo:     userRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

// NotifyDeath reports a client's death and moves their will into execution.
//
// Flow:
// 1. Resolve the will from whichever identifier the notifier supplied
// 2. Zero matches reject without a trace; several matches ask for precision
// 3. Persist the notification and conditionally advance ACTIVE -> EXECUTING
//    in one transaction; a repeat notification is recorded but changes nothing
// 4. Audit, and tell the responsible professional when execution begins
func (u *willUsecase) NotifyDeath(ctx context.Context, req *dto.NotifyDeathRequest) (*dto.NotifyDeathResponse, error) {
	will, err := u.resolveWill(ctx, req)
	if err != nil {
		return nil, err
	}

	declaredDate, err := time.Parse("2006-01-02", req.DeclaredDate)
	if err != nil {
		return nil, err
	}

	notification := &entity.DeathNotification{
		ID:              uuid.New(),
		WillRecordID:    will.ID,
		DeclaredDate:    declaredDate,
		NotifierName:    req.NotifierName,
		NotifierContact: req.NotifierContact,
		CertificateRef:  req.CertificateRef,
	}

	stateChanged, err := u.willRepo.BeginExecution(ctx, u.db, will.ID, notification)
	if err != nil {
		u.log.Warnf("Failed to begin execution for will %s: %+v", will.ID, err)
		return nil, err
	}

	status := will.Status
	if stateChanged {
		status = entity.WillStatusExecuting
	}

	u.audit(ctx, nil, entity.AuditActionDeathNotify, will.ID, entity.JSON{
		"notification_id": notification.ID.String(),
		"state_changed":   stateChanged,
	})
	if stateChanged {
		u.audit(ctx, nil, entity.AuditActionWillExecute, will.ID, nil)
		u.notifyUser(ctx, will.ProfessionalID, "Will execution started",
			fmt.Sprintf("A death notification moved will %s into execution.", will.ID))
	}

	u.log.Infof("Death notification processed: will=%s, state_changed=%t", will.ID, stateChanged)
	return &dto.NotifyDeathResponse{
		WillRecordID:   will.ID,
		NotificationID: notification.ID,
		Status:         string(status),
		StateChanged:   stateChanged,
	}, nil
}

// resolveWill finds the single will a death notification refers to. The
// identifiers are tried from most to least precise.
func (u *willUsecase) resolveWill(ctx context.Context, req *dto.NotifyDeathRequest) (*entity.WillRecord, error) {
	switch {
	case req.AppointmentID != nil:
		will, err := u.willRepo.FindByAppointmentID(ctx, u.db, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find will by appointment %s: %+v", *req.AppointmentID, err)
			return nil, err
		}
		if will == nil {
			return nil, ErrWillNotFound
		}
		return will, nil

	case req.ClientID != nil:
		wills, err := u.willRepo.FindByClientID(ctx, u.db, *req.ClientID)
		if err != nil {
			u.log.Warnf("Failed to find wills by client %s: %+v", *req.ClientID, err)
			return nil, err
		}
		return u.single(wills)

	case req.ClientFullName != "":
		wills, err := u.willRepo.SearchByClientName(ctx, u.db, req.ClientFullName)
		if err != nil {
			u.log.Warnf("Failed to search wills by name %q: %+v", req.ClientFullName, err)
			return nil, err
		}
		return u.single(wills)

	default:
		return nil, ErrDeceasedUnmatched
	}
}

func (u *willUsecase) single(wills []entity.WillRecord) (*entity.WillRecord, error) {
	switch len(wills) {
	case 0:
		return nil, ErrWillNotFound
	case 1:
		return &wills[0], nil
	default:
		candidates := make([]dto.WillCandidateSummary, len(wills))
		for i := range wills {
			candidates[i] = converter.WillRecordToCandidateSummary(&wills[i])
		}
		return nil, &AmbiguousWillError{Candidates: candidates}
	}
}

// MarkExecuted is the administrative close-out: the responsible
// professional or an admin records that the estate settlement finished.
func (u *willUsecase) MarkExecuted(ctx context.Context, willID uuid.UUID) (*dto.WillRecordResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	will, err := u.willRepo.FindByID(ctx, u.db, willID)
	if err != nil {
		u.log.Warnf("Failed to find will %s: %+v", willID, err)
		return nil, err
	}
	if will == nil {
		return nil, ErrWillNotFound
	}
	if roleID != entity.RoleIDAdmin && will.ProfessionalID != actorID {
		return nil, ErrWillNotOwned
	}
	if !will.CanMarkExecuted() {
		return nil, will.TransitionError("mark executed")
	}

	rows, err := u.willRepo.MarkExecuted(ctx, u.db, willID)
	if err != nil {
		u.log.Warnf("Failed to mark will %s executed: %+v", willID, err)
		return nil, err
	}
	if rows == 0 {
		current, err := u.willRepo.FindByID(ctx, u.db, willID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrWillNotFound
		}
		return nil, current.TransitionError("mark executed")
	}

	now := time.Now().UTC()
	will.Status = entity.WillStatusExecuted
	will.ExecutedAt = &now

	u.audit(ctx, &actorID, entity.AuditActionWillExecuted, willID, nil)

	u.log.Infof("Will marked executed: id=%s, by=%s", willID, actorID)
	return converter.WillRecordToResponse(will), nil
}

// GetByID returns one will record to its client, its professional or an admin
func (u *willUsecase) GetByID(ctx context.Context, willID uuid.UUID) (*dto.WillRecordResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	will, err := u.willRepo.FindByID(ctx, u.db, willID)
	if err != nil {
		u.log.Warnf("Failed to find will %s: %+v", willID, err)
		return nil, err
	}
	if will == nil {
		return nil, ErrWillNotFound
	}
	if roleID != entity.RoleIDAdmin && will.ClientID != actorID && will.ProfessionalID != actorID {
		return nil, ErrWillNotOwned
	}

	return converter.WillRecordToResponse(will), nil
}

// GetMyWills lists the wills of the logged-in client
func (u *willUsecase) GetMyWills(ctx context.Context) (*dto.WillRecordListResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	wills, err := u.willRepo.FindByClientID(ctx, u.db, actorID)
	if err != nil {
		u.log.Warnf("Failed to find wills for client %s: %+v", actorID, err)
		return nil, err
	}

	return &dto.WillRecordListResponse{
		Wills: converter.WillRecordsToResponses(wills),
		Total: len(wills),
	}, nil
}

func (u *willUsecase) audit(ctx context.Context, userID *uuid.UUID, action string, willID uuid.UUID, metadata entity.JSON) {
	if err := u.auditService.LogAction(ctx, u.db, userID, action, "will_record", willID.String(), metadata); err != nil {
		u.log.Warnf("Failed to audit %s for will %s: %+v", action, willID, err)
	}
}

// notifyUser resolves the recipient's email and fires the notification
func (u *willUsecase) notifyUser(ctx context.Context, userID uuid.UUID, subject, body string) {
	user, err := u.userRepo.FindByID(u.db, userID)
	if err != nil || user == nil {
		u.log.Warnf("Failed to resolve notification recipient %s: %+v", userID, err)
		return
	}
	u.notifier.Notify(ctx, user.Email, subject, body)
}
