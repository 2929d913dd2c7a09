package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" validate:"required"`
	Start          time.Time `json:"start" validate:"required"`
	End            time.Time `json:"end" validate:"required"`
	LocationMode   string    `json:"location_mode" validate:"required,oneof=OFFICE HOME"`
	Address        string    `json:"address" validate:"omitempty,max=500"`
	PaymentMethod  string    `json:"payment_method" validate:"omitempty,max=50"`
}

// ConfirmAppointmentRequest accepts a pending request. An alternate slot may
// be proposed; when absent the requested window is confirmed as-is.
type ConfirmAppointmentRequest struct {
	AlternateStart *time.Time `json:"alternate_start" validate:"omitempty"`
	AlternateEnd   *time.Time `json:"alternate_end" validate:"omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=100"`
}

// CompleteAppointmentRequest closes out an in-progress meeting. The will
// payload is opaque content produced during the meeting.
type CompleteAppointmentRequest struct {
	WillPayload map[string]interface{} `json:"will_payload" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID               uuid.UUID  `json:"id"`
	ClientID         uuid.UUID  `json:"client_id"`
	ProfessionalID   uuid.UUID  `json:"professional_id"`
	RequestedStart   time.Time  `json:"requested_start"`
	RequestedEnd     time.Time  `json:"requested_end"`
	ConfirmedStart   *time.Time `json:"confirmed_start,omitempty"`
	ConfirmedEnd     *time.Time `json:"confirmed_end,omitempty"`
	LocationMode     string     `json:"location_mode"`
	Address          string     `json:"address,omitempty"`
	Status           string     `json:"status"`
	Fee              string     `json:"fee"`
	CancelledReason  string     `json:"cancelled_reason,omitempty"`
	WillRecordID     *uuid.UUID `json:"will_record_id,omitempty"`
	ClientName       string     `json:"client_name,omitempty"`
	ProfessionalName string     `json:"professional_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
