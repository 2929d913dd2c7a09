package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeathNotification records one report of a client's death. Accepted
// notifications are immutable; duplicates for the same will are kept for the
// paper trail but only the first one moves the will into execution.
type DeathNotification struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WillRecordID    uuid.UUID `gorm:"type:uuid;not null;index" json:"will_record_id"`
	DeclaredDate    time.Time `gorm:"type:date;not null" json:"declared_date"`
	NotifierName    string    `gorm:"type:varchar(255);not null" json:"notifier_name"`
	NotifierContact string    `gorm:"type:varchar(255);not null" json:"notifier_contact"`
	CertificateRef  string    `gorm:"type:varchar(100)" json:"certificate_ref,omitempty"`
	ProcessedAt     time.Time `gorm:"not null" json:"processed_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	WillRecord WillRecord `gorm:"foreignKey:WillRecordID" json:"will_record,omitempty"`
}

func (DeathNotification) TableName() string {
	return "death_notifications"
}
