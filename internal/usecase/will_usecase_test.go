package usecase

import (
	"context"
	"errors"
	"testing"

	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type willFixture struct {
	willRepo *fakeWillRepo
	userRepo *fakeUserRepo
	audit    *fakeAuditService
	notifier *fakeNotifier
	uc       WillUsecase

	clientID       uuid.UUID
	professionalID uuid.UUID
}

func newWillFixture() *willFixture {
	f := &willFixture{
		willRepo:       newFakeWillRepo(),
		userRepo:       newFakeUserRepo(),
		audit:          &fakeAuditService{},
		notifier:       &fakeNotifier{},
		clientID:       uuid.New(),
		professionalID: uuid.New(),
	}
	f.userRepo.put(&entity.User{ID: f.professionalID, Email: "notary@example.com", RoleID: entity.RoleIDProfessional})
	f.uc = NewWillUsecase(nil, logrus.New(), f.willRepo, f.userRepo, f.audit, f.notifier)
	return f
}

func (f *willFixture) activeWill(clientName string) *entity.WillRecord {
	will := &entity.WillRecord{
		ID:             uuid.New(),
		AppointmentID:  uuid.New(),
		ClientID:       f.clientID,
		ProfessionalID: f.professionalID,
		Payload:        entity.JSON{"beneficiary": "spouse"},
		Status:         entity.WillStatusActive,
	}
	will.Client.User.FullName = clientName
	f.willRepo.put(will)
	return will
}

func notifyRequest() *dto.NotifyDeathRequest {
	return &dto.NotifyDeathRequest{
		DeclaredDate:    "2026-08-20",
		NotifierName:    "Harmony Funeral Home",
		NotifierContact: "contact@harmony.example.com",
	}
}

func TestNotifyDeathByAppointmentID(t *testing.T) {
	f := newWillFixture()
	will := f.activeWill("Jane Doe")

	req := notifyRequest()
	req.AppointmentID = &will.AppointmentID

	resp, err := f.uc.NotifyDeath(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.WillRecordID != will.ID {
		t.Errorf("resolved will %s, want %s", resp.WillRecordID, will.ID)
	}
	if !resp.StateChanged {
		t.Error("expected state change on first notification")
	}
	if resp.Status != string(entity.WillStatusExecuting) {
		t.Errorf("status = %s, want EXECUTING", resp.Status)
	}
	if f.willRepo.wills[will.ID].Status != entity.WillStatusExecuting {
		t.Errorf("stored status = %s", f.willRepo.wills[will.ID].Status)
	}
	if len(f.willRepo.notifications) != 1 {
		t.Fatalf("expected 1 recorded notification, got %d", len(f.willRepo.notifications))
	}
	// Execution start reaches the responsible professional
	if len(f.notifier.recipients) != 1 || f.notifier.recipients[0] != "notary@example.com" {
		t.Errorf("unexpected notifications: %v", f.notifier.recipients)
	}
}

func TestNotifyDeathIdempotent(t *testing.T) {
	f := newWillFixture()
	will := f.activeWill("Jane Doe")

	req := notifyRequest()
	req.AppointmentID = &will.AppointmentID

	if _, err := f.uc.NotifyDeath(context.Background(), req); err != nil {
		t.Fatalf("first notification: %v", err)
	}

	resp, err := f.uc.NotifyDeath(context.Background(), req)
	if err != nil {
		t.Fatalf("repeat notification: %v", err)
	}
	if resp.StateChanged {
		t.Error("repeat notification must not change state")
	}
	if resp.Status != string(entity.WillStatusExecuting) {
		t.Errorf("status = %s, want EXECUTING", resp.Status)
	}
	// Both reports stay on the paper trail
	if len(f.willRepo.notifications) != 2 {
		t.Errorf("expected 2 recorded notifications, got %d", len(f.willRepo.notifications))
	}
	// Only the first report woke the professional
	if len(f.notifier.recipients) != 1 {
		t.Errorf("expected 1 delivery, got %d", len(f.notifier.recipients))
	}
}

func TestNotifyDeathByClientID(t *testing.T) {
	f := newWillFixture()
	f.activeWill("Jane Doe")

	req := notifyRequest()
	req.ClientID = &f.clientID

	resp, err := f.uc.NotifyDeath(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.StateChanged {
		t.Error("expected state change")
	}
}

func TestNotifyDeathByName(t *testing.T) {
	f := newWillFixture()
	f.activeWill("Jane Doe")

	req := notifyRequest()
	req.ClientFullName = "jane doe"

	resp, err := f.uc.NotifyDeath(context.Background(), req)
	if err != nil {
		t.Fatalf("case-insensitive name lookup failed: %v", err)
	}
	if !resp.StateChanged {
		t.Error("expected state change")
	}
}

func TestNotifyDeathAmbiguous(t *testing.T) {
	f := newWillFixture()
	f.activeWill("Jane Doe")

	// A second will for a different client with the same name
	other := &entity.WillRecord{
		ID:             uuid.New(),
		AppointmentID:  uuid.New(),
		ClientID:       uuid.New(),
		ProfessionalID: f.professionalID,
		Status:         entity.WillStatusActive,
	}
	other.Client.User.FullName = "Jane Doe"
	f.willRepo.put(other)

	req := notifyRequest()
	req.ClientFullName = "Jane Doe"

	_, err := f.uc.NotifyDeath(context.Background(), req)
	var ambiguous *AmbiguousWillError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousWillError, got %v", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(ambiguous.Candidates))
	}
	// An ambiguous report leaves no trace and changes nothing
	if len(f.willRepo.notifications) != 0 {
		t.Errorf("ambiguous report recorded %d notifications", len(f.willRepo.notifications))
	}
}

func TestNotifyDeathRejections(t *testing.T) {
	f := newWillFixture()

	t.Run("no identifier", func(t *testing.T) {
		if _, err := f.uc.NotifyDeath(context.Background(), notifyRequest()); !errors.Is(err, ErrDeceasedUnmatched) {
			t.Errorf("expected ErrDeceasedUnmatched, got %v", err)
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		req := notifyRequest()
		unknown := uuid.New()
		req.ClientID = &unknown
		if _, err := f.uc.NotifyDeath(context.Background(), req); !errors.Is(err, ErrWillNotFound) {
			t.Errorf("expected ErrWillNotFound, got %v", err)
		}
	})
}

func TestMarkExecuted(t *testing.T) {
	f := newWillFixture()
	will := f.activeWill("Jane Doe")
	f.willRepo.wills[will.ID].Status = entity.WillStatusExecuting
	ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

	resp, err := f.uc.MarkExecuted(ctx, will.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.WillStatusExecuted) {
		t.Errorf("status = %s, want EXECUTED", resp.Status)
	}
	if resp.ExecutedAt == nil {
		t.Error("expected ExecutedAt to be set")
	}
	if f.willRepo.wills[will.ID].Status != entity.WillStatusExecuted {
		t.Errorf("stored status = %s", f.willRepo.wills[will.ID].Status)
	}
}

func TestMarkExecutedRejections(t *testing.T) {
	f := newWillFixture()
	will := f.activeWill("Jane Doe")
	f.willRepo.wills[will.ID].Status = entity.WillStatusExecuting

	t.Run("stranger", func(t *testing.T) {
		ctx := actorContext(uuid.New(), entity.RoleIDProfessional)
		if _, err := f.uc.MarkExecuted(ctx, will.ID); !errors.Is(err, ErrWillNotOwned) {
			t.Errorf("expected ErrWillNotOwned, got %v", err)
		}
	})

	t.Run("admin may close out", func(t *testing.T) {
		ctx := actorContext(uuid.New(), entity.RoleIDAdmin)
		if _, err := f.uc.MarkExecuted(ctx, will.ID); err != nil {
			t.Errorf("admin close-out failed: %v", err)
		}
		f.willRepo.wills[will.ID].Status = entity.WillStatusExecuting
	})

	t.Run("still active", func(t *testing.T) {
		active := f.activeWill("John Doe")
		ctx := actorContext(f.professionalID, entity.RoleIDProfessional)

		_, err := f.uc.MarkExecuted(ctx, active.ID)
		var transitionErr *entity.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
		if transitionErr.From != string(entity.WillStatusActive) {
			t.Errorf("From = %s", transitionErr.From)
		}
	})
}

func TestGetWillAccess(t *testing.T) {
	f := newWillFixture()
	will := f.activeWill("Jane Doe")

	tests := []struct {
		name    string
		actorID uuid.UUID
		roleID  int
		wantErr error
	}{
		{"client", f.clientID, entity.RoleIDClient, nil},
		{"professional", f.professionalID, entity.RoleIDProfessional, nil},
		{"admin", uuid.New(), entity.RoleIDAdmin, nil},
		{"stranger", uuid.New(), entity.RoleIDClient, ErrWillNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := actorContext(tt.actorID, tt.roleID)
			_, err := f.uc.GetByID(ctx, will.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetMyWills(t *testing.T) {
	f := newWillFixture()
	f.activeWill("Jane Doe")
	f.activeWill("Jane Doe")

	ctx := actorContext(f.clientID, entity.RoleIDClient)
	resp, err := f.uc.GetMyWills(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}
