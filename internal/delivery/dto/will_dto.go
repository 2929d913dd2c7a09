package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// NotifyDeathRequest reports a client's death so their will enters
// execution. Exactly one of client_id, appointment_id or client_full_name
// identifies the deceased; the loosest form may need disambiguation.
type NotifyDeathRequest struct {
	ClientID        *uuid.UUID `json:"client_id" validate:"omitempty"`
	AppointmentID   *uuid.UUID `json:"appointment_id" validate:"omitempty"`
	ClientFullName  string     `json:"client_full_name" validate:"omitempty,min=2"`
	DeclaredDate    string     `json:"declared_date" validate:"required,datetime=2006-01-02"`
	NotifierName    string     `json:"notifier_name" validate:"required,min=2,max=255"`
	NotifierContact string     `json:"notifier_contact" validate:"required,min=5,max=255"`
	CertificateRef  string     `json:"certificate_ref" validate:"omitempty,max=100"`
}

// Response DTOs

type WillRecordResponse struct {
	ID             uuid.UUID  `json:"id"`
	AppointmentID  uuid.UUID  `json:"appointment_id"`
	ClientID       uuid.UUID  `json:"client_id"`
	ProfessionalID uuid.UUID  `json:"professional_id"`
	Status         string     `json:"status"`
	ExecutedAt     *time.Time `json:"executed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type WillRecordListResponse struct {
	Wills []WillRecordResponse `json:"wills"`
	Total int                  `json:"total"`
}

// NotifyDeathResponse reports the outcome of a death notification.
// StateChanged is false when the will was already in execution and the
// notification was recorded as a duplicate.
type NotifyDeathResponse struct {
	WillRecordID   uuid.UUID `json:"will_record_id"`
	NotificationID uuid.UUID `json:"notification_id"`
	Status         string    `json:"status"`
	StateChanged   bool      `json:"state_changed"`
}

// WillCandidateSummary is one possible will behind an ambiguous
// death notification lookup.
type WillCandidateSummary struct {
	WillRecordID  uuid.UUID `json:"will_record_id"`
	ClientID      uuid.UUID `json:"client_id"`
	ClientName    string    `json:"client_name"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	CreatedAt     time.Time `json:"created_at"`
}
