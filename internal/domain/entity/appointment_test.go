package entity

import (
	"strings"
	"testing"
	"time"
)

func TestAppointmentLifecycleGuards(t *testing.T) {
	tests := []struct {
		status      AppointmentStatus
		canConfirm  bool
		canCancel   bool
		canBegin    bool
		canComplete bool
		terminal    bool
	}{
		{AppointmentStatusPending, true, true, false, false, false},
		{AppointmentStatusConfirmed, false, true, true, false, false},
		{AppointmentStatusInProgress, false, false, false, true, false},
		{AppointmentStatusCompleted, false, false, false, false, true},
		{AppointmentStatusCancelled, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := Appointment{Status: tt.status}
			if got := a.CanConfirm(); got != tt.canConfirm {
				t.Errorf("CanConfirm() = %v, want %v", got, tt.canConfirm)
			}
			if got := a.CanCancel(); got != tt.canCancel {
				t.Errorf("CanCancel() = %v, want %v", got, tt.canCancel)
			}
			if got := a.CanBegin(); got != tt.canBegin {
				t.Errorf("CanBegin() = %v, want %v", got, tt.canBegin)
			}
			if got := a.CanComplete(); got != tt.canComplete {
				t.Errorf("CanComplete() = %v, want %v", got, tt.canComplete)
			}
			if got := a.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestAppointmentTransitionError(t *testing.T) {
	a := Appointment{Status: AppointmentStatusCompleted}
	err := a.TransitionError("cancel")

	if err.From != string(AppointmentStatusCompleted) {
		t.Errorf("From = %q", err.From)
	}
	if !strings.Contains(err.Error(), "cancel") || !strings.Contains(err.Error(), "COMPLETED") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAppointmentConfirmedWindow(t *testing.T) {
	requestedStart := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	requestedEnd := requestedStart.Add(time.Hour)

	a := Appointment{RequestedStart: requestedStart, RequestedEnd: requestedEnd}

	// Without confirmation the requested window stands
	w := a.ConfirmedWindow()
	if !w.Start.Equal(requestedStart) || !w.End.Equal(requestedEnd) {
		t.Errorf("ConfirmedWindow() = %v-%v", w.Start, w.End)
	}

	// Confirmation with an alternate slot wins
	altStart := requestedStart.Add(2 * time.Hour)
	altEnd := altStart.Add(time.Hour)
	a.ConfirmedStart = &altStart
	a.ConfirmedEnd = &altEnd

	w = a.ConfirmedWindow()
	if !w.Start.Equal(altStart) || !w.End.Equal(altEnd) {
		t.Errorf("ConfirmedWindow() after confirm = %v-%v", w.Start, w.End)
	}
}
