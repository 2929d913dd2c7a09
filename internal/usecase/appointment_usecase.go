package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lastwill-backend/config"
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
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrProfessionalNotFound  = errors.New("professional not found")
	ErrProfessionalNotActive = errors.New("professional is not accepting appointments")
	ErrAppointmentNotOwned   = errors.New("appointment does not belong to you")
	ErrSlotUnavailable       = errors.New("requested slot is not available")
	ErrSlotConflict          = errors.New("slot was taken by a concurrent confirmation")
	ErrHomeVisitNotOffered   = errors.New("professional does not offer home visits")
	ErrEmptyWillPayload      = errors.New("will payload must not be empty")
	ErrAppointmentInPast     = errors.New("appointment must start in the future")
)

type AppointmentUsecase interface {
	Request(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Confirm(ctx context.Context, appointmentID uuid.UUID, req *dto.ConfirmAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) error
	Begin(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.WillRecordResponse, error)
	GetByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	professionalRepo repository.ProfessionalProfileRepository
	userRepo         repository.UserRepository
	availability     AvailabilityUsecase
	auditService     service.AuditService
	notifier         service.Notifier
	engine           config.EngineConfig
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	professionalRepo repository.ProfessionalProfileRepository,
	userRepo repository.UserRepository,
	availability AvailabilityUsecase,
	auditService service.AuditService,
	notifier service.Notifier,
	engine config.EngineConfig,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		userRepo:         userRepo,
		availability:     availability,
		auditService:     auditService,
		notifier:         notifier,
		engine:           engine,
	}
}

// Request creates a PENDING appointment for the logged-in client.
//
// Flow:
// 1. Validate the professional exists, is approved and offers the mode
// 2. Validate the requested window is a currently bookable slot
// 3. Insert the PENDING appointment (it does not consume the slot yet)
// 4. Audit and notify the professional
func (u *appointmentUsecase) Request(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	clientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if !req.End.After(req.Start) {
		return nil, ErrInvalidDateRange
	}
	if !req.Start.After(time.Now()) {
		return nil, ErrAppointmentInPast
	}

	profile, err := u.professionalRepo.FindByUserID(u.db, req.ProfessionalID)
	if err != nil {
		u.log.Warnf("Failed to find professional %s: %+v", req.ProfessionalID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfessionalNotFound
	}
	if !profile.IsApproved() {
		return nil, ErrProfessionalNotActive
	}
	if entity.LocationMode(req.LocationMode) == entity.LocationHome && !profile.HomeVisit {
		return nil, ErrHomeVisitNotOffered
	}

	if err := u.checkSlotBookable(ctx, req.ProfessionalID, req.Start, req.End); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		RequestedStart: req.Start,
		RequestedEnd:   req.End,
		LocationMode:   entity.LocationMode(req.LocationMode),
		Address:        req.Address,
		Status:         entity.AppointmentStatusPending,
		PaymentMethod:  req.PaymentMethod,
		Fee:            profile.ConsultationFee,
	}

	if err := u.appointmentRepo.Create(ctx, u.db, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.audit(ctx, &clientID, entity.AuditActionAppointmentRequest, appointment.ID, entity.JSON{
		"professional_id": req.ProfessionalID.String(),
		"start":           req.Start,
		"end":             req.End,
	})
	u.notifyUser(ctx, req.ProfessionalID, "New appointment request",
		fmt.Sprintf("A client requested an appointment on %s.", req.Start.Format(time.RFC1123)))

	u.log.Infof("Appointment requested: id=%s, client=%s, professional=%s", appointment.ID, clientID, req.ProfessionalID)
	return converter.AppointmentToResponse(appointment), nil
}

// Confirm moves a PENDING appointment to CONFIRMED, fixing the meeting slot.
// The slot is claimed with a single conditional update so two professionals
// confirming overlapping windows can never both win.
func (u *appointmentUsecase) Confirm(ctx context.Context, appointmentID uuid.UUID, req *dto.ConfirmAppointmentRequest) (*dto.AppointmentResponse, error) {
	professionalID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ProfessionalID != professionalID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.CanConfirm() {
		return nil, appointment.TransitionError("confirm")
	}

	start, end := appointment.RequestedStart, appointment.RequestedEnd
	if req.AlternateStart != nil && req.AlternateEnd != nil {
		start, end = *req.AlternateStart, *req.AlternateEnd
		if !end.After(start) {
			return nil, ErrInvalidDateRange
		}
	}

	rows, err := u.appointmentRepo.ConfirmIfNoConflict(ctx, u.db, appointmentID, professionalID, start, end)
	if err != nil {
		u.log.Warnf("Failed to confirm appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, u.classifyConfirmLoss(ctx, appointmentID)
	}

	appointment.Status = entity.AppointmentStatusConfirmed
	appointment.ConfirmedStart = &start
	appointment.ConfirmedEnd = &end

	u.audit(ctx, &professionalID, entity.AuditActionAppointmentConfirm, appointmentID, entity.JSON{
		"start": start,
		"end":   end,
	})
	u.notifyUser(ctx, appointment.ClientID, "Appointment confirmed",
		fmt.Sprintf("Your appointment was confirmed for %s.", start.Format(time.RFC1123)))

	u.log.Infof("Appointment confirmed: id=%s, professional=%s", appointmentID, professionalID)
	return converter.AppointmentToResponse(appointment), nil
}

// classifyConfirmLoss explains a zero-row conditional confirm: the
// appointment vanished, its state moved concurrently, or the slot was
// consumed by an overlapping confirmation.
func (u *appointmentUsecase) classifyConfirmLoss(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.Status != entity.AppointmentStatusPending {
		return appointment.TransitionError("confirm")
	}
	return ErrSlotConflict
}

// Cancel abandons a PENDING request or a CONFIRMED meeting. Either party
// may cancel; the professional cancelling a PENDING request is a rejection.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if !u.isParty(appointment, actorID, roleID) {
		return ErrAppointmentNotOwned
	}
	if !appointment.CanCancel() {
		return appointment.TransitionError("cancel")
	}

	rows, err := u.appointmentRepo.UpdateStatusIf(ctx, u.db, appointmentID,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed},
		entity.AppointmentStatusCancelled, req.Reason)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if rows == 0 {
		// Lost to a concurrent transition; re-read for the real state.
		current, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrAppointmentNotFound
		}
		return current.TransitionError("cancel")
	}

	u.audit(ctx, &actorID, entity.AuditActionAppointmentCancel, appointmentID, entity.JSON{
		"reason": req.Reason,
	})
	other := appointment.ClientID
	if actorID == appointment.ClientID {
		other = appointment.ProfessionalID
	}
	u.notifyUser(ctx, other, "Appointment cancelled",
		fmt.Sprintf("Appointment %s was cancelled.", appointmentID))

	u.log.Infof("Appointment cancelled: id=%s, by=%s", appointmentID, actorID)
	return nil
}

// Begin opens a CONFIRMED meeting on the day of the appointment
func (u *appointmentUsecase) Begin(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	professionalID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ProfessionalID != professionalID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.CanBegin() {
		return nil, appointment.TransitionError("begin")
	}

	rows, err := u.appointmentRepo.UpdateStatusIf(ctx, u.db, appointmentID,
		[]entity.AppointmentStatus{entity.AppointmentStatusConfirmed},
		entity.AppointmentStatusInProgress, "")
	if err != nil {
		u.log.Warnf("Failed to begin appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		current, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrAppointmentNotFound
		}
		return nil, current.TransitionError("begin")
	}

	appointment.Status = entity.AppointmentStatusInProgress

	u.audit(ctx, &professionalID, entity.AuditActionAppointmentBegin, appointmentID, nil)

	u.log.Infof("Appointment begun: id=%s, professional=%s", appointmentID, professionalID)
	return converter.AppointmentToResponse(appointment), nil
}

// Complete closes out an IN_PROGRESS meeting and creates the client's will
// record in the same transaction. A completed appointment always has
// exactly one will, so the two writes are a single repository primitive.
func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.WillRecordResponse, error) {
	professionalID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if len(req.WillPayload) == 0 {
		return nil, ErrEmptyWillPayload
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ProfessionalID != professionalID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.CanComplete() {
		return nil, appointment.TransitionError("complete")
	}

	will, err := u.appointmentRepo.CompleteWithWill(ctx, u.db, appointmentID, entity.JSON(req.WillPayload))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The conditional update hit zero rows under our feet.
			current, findErr := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
			if findErr != nil {
				return nil, findErr
			}
			if current == nil {
				return nil, ErrAppointmentNotFound
			}
			return nil, current.TransitionError("complete")
		}
		u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.audit(ctx, &professionalID, entity.AuditActionAppointmentComplete, appointmentID, entity.JSON{
		"will_record_id": will.ID.String(),
	})
	u.notifyUser(ctx, appointment.ClientID, "Will registered",
		"Your appointment is complete and your will has been registered.")

	u.log.Infof("Appointment completed: id=%s, will=%s", appointmentID, will.ID)
	return converter.WillRecordToResponse(will), nil
}

// GetByID returns one appointment to one of its parties or an admin
func (u *appointmentUsecase) GetByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !u.isParty(appointment, actorID, roleID) {
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments lists the appointments of the logged-in client or
// professional, newest first
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	var appointments []entity.Appointment
	var err error
	if roleID == entity.RoleIDProfessional {
		appointments, err = u.appointmentRepo.FindByProfessionalID(ctx, u.db, actorID)
	} else {
		appointments, err = u.appointmentRepo.FindByClientID(ctx, u.db, actorID)
	}
	if err != nil {
		u.log.Warnf("Failed to find appointments for %s: %+v", actorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// checkSlotBookable verifies the window against the professional's real
// availability for that day, blocked dates and consumed slots included.
func (u *appointmentUsecase) checkSlotBookable(ctx context.Context, professionalID uuid.UUID, start, end time.Time) error {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	iter, err := u.availability.AvailableSlots(ctx, professionalID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	for {
		slot, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if slot == nil {
			return ErrSlotUnavailable
		}
		if slot.Start.Equal(start) && slot.End.Equal(end) {
			return nil
		}
	}
}

// isParty checks read/cancel access: either participant or an admin
func (u *appointmentUsecase) isParty(appointment *entity.Appointment, actorID uuid.UUID, roleID int) bool {
	if roleID == entity.RoleIDAdmin {
		return true
	}
	return appointment.ClientID == actorID || appointment.ProfessionalID == actorID
}

func (u *appointmentUsecase) audit(ctx context.Context, userID *uuid.UUID, action string, appointmentID uuid.UUID, metadata entity.JSON) {
	if err := u.auditService.LogAction(ctx, u.db, userID, action, "appointment", appointmentID.String(), metadata); err != nil {
		u.log.Warnf("Failed to audit %s for appointment %s: %+v", action, appointmentID, err)
	}
}

// notifyUser resolves the recipient's email and fires the notification.
// Lookup failures are logged; the transition already happened.
func (u *appointmentUsecase) notifyUser(ctx context.Context, userID uuid.UUID, subject, body string) {
	user, err := u.userRepo.FindByID(u.db, userID)
	if err != nil || user == nil {
		u.log.Warnf("Failed to resolve notification recipient %s: %+v", userID, err)
		return
	}
	u.notifier.Notify(ctx, user.Email, subject, body)
}
