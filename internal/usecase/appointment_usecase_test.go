package usecase

import (
	"errors"
	"testing"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type appointmentFixture struct {
	appointmentRepo  *fakeAppointmentRepo
	professionalRepo *fakeProfessionalRepo
	availabilityRepo *fakeAvailabilityRepo
	userRepo         *fakeUserRepo
	audit            *fakeAuditService
	notifier         *fakeNotifier
	uc               AppointmentUsecase

	clientID       uuid.UUID
	professionalID uuid.UUID
}

func newAppointmentFixture() *appointmentFixture {
	f := &appointmentFixture{
		appointmentRepo:  newFakeAppointmentRepo(),
		professionalRepo: newFakeProfessionalRepo(),
		availabilityRepo: newFakeAvailabilityRepo(),
		userRepo:         newFakeUserRepo(),
		audit:            &fakeAuditService{},
		notifier:         &fakeNotifier{},
		clientID:         uuid.New(),
		professionalID:   uuid.New(),
	}

	log := logrus.New()
	availability := NewAvailabilityUsecase(nil, log, f.availabilityRepo, f.appointmentRepo)
	f.uc = NewAppointmentUsecase(nil, log, f.appointmentRepo, f.professionalRepo, f.userRepo,
		availability, f.audit, f.notifier, config.EngineConfig{MatchLookaheadDays: 14})

	f.professionalRepo.profiles[f.professionalID] = &entity.ProfessionalProfile{
		UserID:         f.professionalID,
		Qualification:  entity.QualificationNotary,
		ApprovalStatus: entity.ApprovalApproved,
	}
	f.userRepo.put(&entity.User{ID: f.clientID, Email: "client@example.com", RoleID: entity.RoleIDClient})
	f.userRepo.put(&entity.User{ID: f.professionalID, Email: "notary@example.com", RoleID: entity.RoleIDProfessional})

	return f
}

// openSlot gives the professional a bookable window and returns it
func (f *appointmentFixture) openSlot(daysAhead int) entity.TimeWindow {
	day := time.Now().UTC().AddDate(0, 0, daysAhead)
	f.availabilityRepo.templates[f.professionalID] = []entity.TemplateInterval{
		{ProfessionalID: f.professionalID, Weekday: day.Weekday(), StartTime: "10:00", EndTime: "11:00", SlotMinutes: 60},
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	return entity.TimeWindow{Start: start, End: start.Add(time.Hour)}
}

func (f *appointmentFixture) pendingAppointment(slot entity.TimeWindow) *entity.Appointment {
	a := &entity.Appointment{
		ID:             uuid.New(),
		ClientID:       f.clientID,
		ProfessionalID: f.professionalID,
		RequestedStart: slot.Start,
		RequestedEnd:   slot.End,
		Status:         entity.AppointmentStatusPending,
	}
	f.appointmentRepo.put(a)
	return a
}

func TestRequestAppointment(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	ctx := actorContext(f.clientID, entity.RoleIDClient)

	resp, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
		ProfessionalID: f.professionalID,
		Start:          slot.Start,
		End:            slot.End,
		LocationMode:   string(entity.LocationOffice),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusPending) {
		t.Errorf("status = %s, want PENDING", resp.Status)
	}
	if len(f.notifier.recipients) != 1 || f.notifier.recipients[0] != "notary@example.com" {
		t.Errorf("professional was not notified: %v", f.notifier.recipients)
	}
	if len(f.audit.actions) != 1 {
		t.Errorf("expected 1 audit entry, got %d", len(f.audit.actions))
	}
}

func TestRequestAppointmentRejections(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	ctx := actorContext(f.clientID, entity.RoleIDClient)

	t.Run("start in the past", func(t *testing.T) {
		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: f.professionalID,
			Start:          time.Now().Add(-time.Hour),
			End:            time.Now(),
		})
		if !errors.Is(err, ErrAppointmentInPast) {
			t.Errorf("expected ErrAppointmentInPast, got %v", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: f.professionalID,
			Start:          slot.End,
			End:            slot.Start,
		})
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("unknown professional", func(t *testing.T) {
		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: uuid.New(),
			Start:          slot.Start,
			End:            slot.End,
		})
		if !errors.Is(err, ErrProfessionalNotFound) {
			t.Errorf("expected ErrProfessionalNotFound, got %v", err)
		}
	})

	t.Run("unapproved professional", func(t *testing.T) {
		f.professionalRepo.profiles[f.professionalID].ApprovalStatus = entity.ApprovalPending
		defer func() { f.professionalRepo.profiles[f.professionalID].ApprovalStatus = entity.ApprovalApproved }()

		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: f.professionalID,
			Start:          slot.Start,
			End:            slot.End,
		})
		if !errors.Is(err, ErrProfessionalNotActive) {
			t.Errorf("expected ErrProfessionalNotActive, got %v", err)
		}
	})

	t.Run("home visit not offered", func(t *testing.T) {
		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: f.professionalID,
			Start:          slot.Start,
			End:            slot.End,
			LocationMode:   string(entity.LocationHome),
		})
		if !errors.Is(err, ErrHomeVisitNotOffered) {
			t.Errorf("expected ErrHomeVisitNotOffered, got %v", err)
		}
	})

	t.Run("window is not a slot", func(t *testing.T) {
		_, err := f.uc.Request(ctx, &dto.CreateAppointmentRequest{
			ProfessionalID: f.professionalID,
			Start:          slot.Start.Add(15 * time.Minute),
			End:            slot.End.Add(15 * time.Minute),
		})
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Errorf("expected ErrSlotUnavailable, got %v", err)
		}
	})
}

func TestConfirmAppointment(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	a := f.pendingAppointment(slot)
	f.appointmentRepo.confirmRows = 1
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	resp, err := f.uc.Confirm(ctx, a.ID, &dto.ConfirmAppointmentRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusConfirmed) {
		t.Errorf("status = %s, want CONFIRMED", resp.Status)
	}
	if resp.ConfirmedStart == nil || !resp.ConfirmedStart.Equal(slot.Start) {
		t.Errorf("confirmed start = %v, want %v", resp.ConfirmedStart, slot.Start)
	}
	if len(f.notifier.recipients) != 1 || f.notifier.recipients[0] != "client@example.com" {
		t.Errorf("client was not notified: %v", f.notifier.recipients)
	}
}

func TestConfirmAppointmentAlternateSlot(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	a := f.pendingAppointment(slot)
	f.appointmentRepo.confirmRows = 1
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	altStart := slot.Start.Add(24 * time.Hour)
	altEnd := altStart.Add(time.Hour)
	resp, err := f.uc.Confirm(ctx, a.ID, &dto.ConfirmAppointmentRequest{
		AlternateStart: &altStart,
		AlternateEnd:   &altEnd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConfirmedStart == nil || !resp.ConfirmedStart.Equal(altStart) {
		t.Errorf("confirmed start = %v, want alternate %v", resp.ConfirmedStart, altStart)
	}
}

func TestConfirmAppointmentRejections(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	a := f.pendingAppointment(slot)

	t.Run("not the professional", func(t *testing.T) {
		ctx := actorContext(uuid.New(), entity.RoleIDProfessional)
		if _, err := f.uc.Confirm(ctx, a.ID, &dto.ConfirmAppointmentRequest{}); !errors.Is(err, ErrAppointmentNotOwned) {
			t.Errorf("expected ErrAppointmentNotOwned, got %v", err)
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		ctx := actorContext(f.professionalID, entity.RoleIDProfessional)
		if _, err := f.uc.Confirm(ctx, uuid.New(), &dto.ConfirmAppointmentRequest{}); !errors.Is(err, ErrAppointmentNotFound) {
			t.Errorf("expected ErrAppointmentNotFound, got %v", err)
		}
	})

	t.Run("already cancelled", func(t *testing.T) {
		cancelled := f.pendingAppointment(slot)
		f.appointmentRepo.appointments[cancelled.ID].Status = entity.AppointmentStatusCancelled
		ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

		_, err := f.uc.Confirm(ctx, cancelled.ID, &dto.ConfirmAppointmentRequest{})
		var transitionErr *entity.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
		if transitionErr.From != string(entity.AppointmentStatusCancelled) {
			t.Errorf("From = %s", transitionErr.From)
		}
	})
}

func TestConfirmAppointmentLostRace(t *testing.T) {
	t.Run("slot taken by overlapping confirmation", func(t *testing.T) {
		f := newAppointmentFixture()
		a := f.pendingAppointment(f.openSlot(3))
		f.appointmentRepo.confirmRows = 0
		ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

		// Still PENDING on re-read, so the slot itself was the loss
		if _, err := f.uc.Confirm(ctx, a.ID, &dto.ConfirmAppointmentRequest{}); !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("expected ErrSlotConflict, got %v", err)
		}
	})

	t.Run("state moved concurrently", func(t *testing.T) {
		f := newAppointmentFixture()
		a := f.pendingAppointment(f.openSlot(3))
		f.appointmentRepo.confirmRows = 0
		f.appointmentRepo.statusOnReread = entity.AppointmentStatusCancelled
		ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

		_, err := f.uc.Confirm(ctx, a.ID, &dto.ConfirmAppointmentRequest{})
		var transitionErr *entity.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	f.appointmentRepo.updateRows = 1
	ctx := actorContext(f.clientID, entity.RoleIDClient)

	if err := f.uc.Cancel(ctx, a.ID, &dto.CancelAppointmentRequest{Reason: "changed my mind"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.appointmentRepo.appointments[a.ID].Status != entity.AppointmentStatusCancelled {
		t.Errorf("stored status = %s", f.appointmentRepo.appointments[a.ID].Status)
	}
	// The other party hears about it
	if len(f.notifier.recipients) != 1 || f.notifier.recipients[0] != "notary@example.com" {
		t.Errorf("unexpected notifications: %v", f.notifier.recipients)
	}
}

func TestRejectPendingAppointment(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	f.appointmentRepo.updateRows = 1
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	if err := f.uc.Cancel(ctx, a.ID, &dto.CancelAppointmentRequest{Reason: "fully booked"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.appointmentRepo.appointments[a.ID].Status != entity.AppointmentStatusCancelled {
		t.Errorf("stored status = %s", f.appointmentRepo.appointments[a.ID].Status)
	}
	// The client hears that their request was declined
	if len(f.notifier.recipients) != 1 || f.notifier.recipients[0] != "client@example.com" {
		t.Errorf("unexpected notifications: %v", f.notifier.recipients)
	}
}

func TestCancelAppointmentRejections(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))

	t.Run("stranger", func(t *testing.T) {
		ctx := actorContext(uuid.New(), entity.RoleIDClient)
		if err := f.uc.Cancel(ctx, a.ID, &dto.CancelAppointmentRequest{}); !errors.Is(err, ErrAppointmentNotOwned) {
			t.Errorf("expected ErrAppointmentNotOwned, got %v", err)
		}
	})

	t.Run("already completed", func(t *testing.T) {
		done := f.pendingAppointment(f.openSlot(3))
		f.appointmentRepo.appointments[done.ID].Status = entity.AppointmentStatusCompleted
		ctx := actorContext(f.clientID, entity.RoleIDClient)

		err := f.uc.Cancel(ctx, done.ID, &dto.CancelAppointmentRequest{})
		var transitionErr *entity.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestBeginAppointment(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	f.appointmentRepo.appointments[a.ID].Status = entity.AppointmentStatusConfirmed
	f.appointmentRepo.updateRows = 1
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	resp, err := f.uc.Begin(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusInProgress) {
		t.Errorf("status = %s, want IN_PROGRESS", resp.Status)
	}
}

func TestBeginAppointmentRequiresConfirmed(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	_, err := f.uc.Begin(ctx, a.ID)
	var transitionErr *entity.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.From != string(entity.AppointmentStatusPending) {
		t.Errorf("From = %s", transitionErr.From)
	}
}

func TestCompleteAppointment(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	f.appointmentRepo.appointments[a.ID].Status = entity.AppointmentStatusInProgress
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	will, err := f.uc.Complete(ctx, a.ID, &dto.CompleteAppointmentRequest{
		WillPayload: map[string]interface{}{"beneficiary": "spouse"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if will.Status != string(entity.WillStatusActive) {
		t.Errorf("will status = %s, want ACTIVE", will.Status)
	}
	if will.AppointmentID != a.ID {
		t.Errorf("will bound to %s, want %s", will.AppointmentID, a.ID)
	}
	if f.appointmentRepo.appointments[a.ID].Status != entity.AppointmentStatusCompleted {
		t.Errorf("stored status = %s", f.appointmentRepo.appointments[a.ID].Status)
	}
}

func TestCompleteAppointmentRejections(t *testing.T) {
	f := newAppointmentFixture()
	a := f.pendingAppointment(f.openSlot(3))
	f.appointmentRepo.appointments[a.ID].Status = entity.AppointmentStatusInProgress
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	t.Run("empty payload", func(t *testing.T) {
		_, err := f.uc.Complete(ctx, a.ID, &dto.CompleteAppointmentRequest{WillPayload: map[string]interface{}{}})
		if !errors.Is(err, ErrEmptyWillPayload) {
			t.Errorf("expected ErrEmptyWillPayload, got %v", err)
		}
	})

	t.Run("not in progress", func(t *testing.T) {
		confirmed := f.pendingAppointment(f.openSlot(3))
		f.appointmentRepo.appointments[confirmed.ID].Status = entity.AppointmentStatusConfirmed

		_, err := f.uc.Complete(ctx, confirmed.ID, &dto.CompleteAppointmentRequest{
			WillPayload: map[string]interface{}{"beneficiary": "spouse"},
		})
		var transitionErr *entity.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestGetMyAppointments(t *testing.T) {
	f := newAppointmentFixture()
	slot := f.openSlot(3)
	f.pendingAppointment(slot)
	f.pendingAppointment(slot)

	t.Run("as client", func(t *testing.T) {
		ctx := actorContext(f.clientID, entity.RoleIDClient)
		resp, err := f.uc.GetMyAppointments(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Total != 2 {
			t.Errorf("Total = %d, want 2", resp.Total)
		}
	})

	t.Run("as stranger", func(t *testing.T) {
		ctx := actorContext(uuid.New(), entity.RoleIDClient)
		resp, err := f.uc.GetMyAppointments(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Total != 0 {
			t.Errorf("Total = %d, want 0", resp.Total)
		}
	})
}
