package entity

import (
	"time"

	"github.com/google/uuid"
)

// WillStatus represents the execution state of a persisted will
type WillStatus string

const (
	WillStatusActive    WillStatus = "ACTIVE"
	WillStatusExecuting WillStatus = "EXECUTING"
	WillStatusExecuted  WillStatus = "EXECUTED"
)

// WillRecord is the persisted outcome of a completed appointment. It is
// created exactly once, together with the appointment completion, and is
// mutated only by the execution workflow afterwards. The will content is an
// opaque payload to this engine.
type WillRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID  uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	ClientID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	ProfessionalID uuid.UUID  `gorm:"type:uuid;not null;index" json:"professional_id"`
	Payload        JSON       `gorm:"type:jsonb;not null" json:"payload"`
	Status         WillStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index" json:"status"`
	ExecutedAt     *time.Time `json:"executed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment   Appointment         `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Client        ClientProfile       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Professional  ProfessionalProfile `gorm:"foreignKey:ProfessionalID" json:"professional,omitempty"`
	Notifications []DeathNotification `gorm:"foreignKey:WillRecordID" json:"notifications,omitempty"`
}

func (WillRecord) TableName() string {
	return "will_records"
}

// IsActive checks if the will is not yet in execution
func (w *WillRecord) IsActive() bool {
	return w.Status == WillStatusActive
}

// InExecution checks if the will has entered or finished execution. A death
// notification against such a will is accepted as an idempotent no-op.
func (w *WillRecord) InExecution() bool {
	return w.Status == WillStatusExecuting || w.Status == WillStatusExecuted
}

// CanMarkExecuted checks the administrative close-out guard
func (w *WillRecord) CanMarkExecuted() bool {
	return w.Status == WillStatusExecuting
}

// TransitionError builds the rejection for an illegal lifecycle move
func (w *WillRecord) TransitionError(action string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: "will record", From: string(w.Status), Action: action}
}
