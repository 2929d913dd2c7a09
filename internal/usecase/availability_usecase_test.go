package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lastwill-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newAvailabilityFixture() (*fakeAvailabilityRepo, *fakeAppointmentRepo, AvailabilityUsecase) {
	availabilityRepo := newFakeAvailabilityRepo()
	appointmentRepo := newFakeAppointmentRepo()
	uc := NewAvailabilityUsecase(nil, logrus.New(), availabilityRepo, appointmentRepo)
	return availabilityRepo, appointmentRepo, uc
}

func TestAvailableSlotsInvalidRange(t *testing.T) {
	_, _, uc := newAvailabilityFixture()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if _, err := uc.AvailableSlots(context.Background(), uuid.New(), from, from); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestAvailableSlotsEmptyTemplate(t *testing.T) {
	_, _, uc := newAvailabilityFixture()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slot, err := uc.FirstAvailableSlot(context.Background(), uuid.New(), from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != nil {
		t.Fatalf("expected no slot, got %v", slot)
	}
}

func TestAvailableSlotsExpansion(t *testing.T) {
	availabilityRepo, _, uc := newAvailabilityFixture()
	professionalID := uuid.New()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	availabilityRepo.templates[professionalID] = []entity.TemplateInterval{
		{ProfessionalID: professionalID, Weekday: from.Weekday(), StartTime: "09:00", EndTime: "11:00", SlotMinutes: 60},
	}

	iter, err := uc.AvailableSlots(context.Background(), professionalID, from, from.AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := iter.Collect(context.Background(), 0)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	// Two slots on each of the two matching weekdays in the range
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(from.Add(9 * time.Hour)) {
		t.Errorf("first slot starts at %v", slots[0].Start)
	}
	if !slots[2].Start.Equal(from.AddDate(0, 0, 7).Add(9 * time.Hour)) {
		t.Errorf("third slot starts at %v", slots[2].Start)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Start.Before(slots[i].Start) {
			t.Errorf("slots out of order at %d", i)
		}
	}
}

func TestAvailableSlotsBlockedDateWins(t *testing.T) {
	availabilityRepo, _, uc := newAvailabilityFixture()
	professionalID := uuid.New()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	availabilityRepo.templates[professionalID] = []entity.TemplateInterval{
		{ProfessionalID: professionalID, Weekday: from.Weekday(), StartTime: "09:00", EndTime: "10:00", SlotMinutes: 60},
		{ProfessionalID: professionalID, Weekday: from.AddDate(0, 0, 1).Weekday(), StartTime: "09:00", EndTime: "10:00", SlotMinutes: 60},
	}
	availabilityRepo.blocked[professionalID] = []entity.BlockedDate{
		{ProfessionalID: professionalID, StartDate: from, EndDate: from},
	}

	slot, err := uc.FirstAvailableSlot(context.Background(), professionalID, from, from.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot == nil {
		t.Fatal("expected a slot on the unblocked day")
	}
	wantStart := from.AddDate(0, 0, 1).Add(9 * time.Hour)
	if !slot.Start.Equal(wantStart) {
		t.Errorf("first slot starts at %v, want %v", slot.Start, wantStart)
	}
}

func TestAvailableSlotsBusyWindowConsumes(t *testing.T) {
	availabilityRepo, appointmentRepo, uc := newAvailabilityFixture()
	professionalID := uuid.New()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	availabilityRepo.templates[professionalID] = []entity.TemplateInterval{
		{ProfessionalID: professionalID, Weekday: from.Weekday(), StartTime: "09:00", EndTime: "12:00", SlotMinutes: 60},
	}
	appointmentRepo.busy[professionalID] = []entity.TimeWindow{
		{Start: from.Add(10 * time.Hour), End: from.Add(11 * time.Hour)},
	}

	iter, err := uc.AvailableSlots(context.Background(), professionalID, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slots, err := iter.Collect(context.Background(), 0)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 free slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start.Equal(from.Add(10 * time.Hour)) {
			t.Errorf("busy slot leaked through: %v", s.Start)
		}
	}
}

func TestSlotIteratorCollectLimit(t *testing.T) {
	availabilityRepo, _, uc := newAvailabilityFixture()
	professionalID := uuid.New()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	availabilityRepo.templates[professionalID] = []entity.TemplateInterval{
		{ProfessionalID: professionalID, Weekday: from.Weekday(), StartTime: "09:00", EndTime: "17:00", SlotMinutes: 30},
	}

	iter, err := uc.AvailableSlots(context.Background(), professionalID, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slots, err := iter.Collect(context.Background(), 3)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected capped 3 slots, got %d", len(slots))
	}
}

func TestSlotIteratorHonorsCancellation(t *testing.T) {
	availabilityRepo, _, uc := newAvailabilityFixture()
	professionalID := uuid.New()

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	availabilityRepo.templates[professionalID] = []entity.TemplateInterval{
		{ProfessionalID: professionalID, Weekday: from.Weekday(), StartTime: "09:00", EndTime: "10:00", SlotMinutes: 60},
	}

	iter, err := uc.AvailableSlots(context.Background(), professionalID, from, from.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := iter.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
