package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
)

// LocationMode is where the appointment takes place
type LocationMode string

const (
	LocationOffice LocationMode = "OFFICE"
	LocationHome   LocationMode = "HOME"
)

// InvalidTransitionError rejects an illegal lifecycle move. The current
// state is carried so callers can report it.
type InvalidTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: cannot %s while %s", e.Entity, e.Action, e.From)
}

// Appointment represents one client/professional meeting request and its
// lifecycle from request to completion or cancellation.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	ProfessionalID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"professional_id"`
	RequestedStart  time.Time         `gorm:"not null" json:"requested_start"`
	RequestedEnd    time.Time         `gorm:"not null" json:"requested_end"`
	ConfirmedStart  *time.Time        `gorm:"index" json:"confirmed_start,omitempty"`
	ConfirmedEnd    *time.Time        `json:"confirmed_end,omitempty"`
	LocationMode    LocationMode      `gorm:"type:varchar(10);not null;default:'OFFICE'" json:"location_mode"`
	Address         string            `gorm:"type:text" json:"address,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(15);not null;default:'PENDING';index" json:"status"`
	PaymentMethod   string            `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	Insurance       JSON              `gorm:"type:jsonb" json:"insurance,omitempty"`
	Fee             decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	CancelledReason string            `gorm:"type:varchar(100)" json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Client       ClientProfile       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Professional ProfessionalProfile `gorm:"foreignKey:ProfessionalID" json:"professional,omitempty"`
	WillRecord   *WillRecord         `gorm:"foreignKey:AppointmentID" json:"will_record,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsTerminal checks if no further mutation is permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// CanConfirm checks the confirm guard: professional accepts a pending request
func (a *Appointment) CanConfirm() bool {
	return a.Status == AppointmentStatusPending
}

// CanCancel checks the cancel/reject guard: either party may abandon a
// request or a confirmed meeting, but not one already underway or finished
func (a *Appointment) CanCancel() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// CanBegin checks the begin guard: the professional opens the meeting day-of
func (a *Appointment) CanBegin() bool {
	return a.Status == AppointmentStatusConfirmed
}

// CanComplete checks the complete guard: only a meeting underway can finish
func (a *Appointment) CanComplete() bool {
	return a.Status == AppointmentStatusInProgress
}

// TransitionError builds the rejection for an illegal lifecycle move
func (a *Appointment) TransitionError(action string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: "appointment", From: string(a.Status), Action: action}
}

// ConfirmedWindow returns the confirmed time window, or the requested one
// when confirmation has not fixed an alternate slot yet.
func (a *Appointment) ConfirmedWindow() TimeWindow {
	if a.ConfirmedStart != nil && a.ConfirmedEnd != nil {
		return TimeWindow{Start: *a.ConfirmedStart, End: *a.ConfirmedEnd}
	}
	return TimeWindow{Start: a.RequestedStart, End: a.RequestedEnd}
}
