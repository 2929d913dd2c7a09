package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Qualification is the legal qualification a professional holds
type Qualification string

const (
	QualificationLawyer Qualification = "LAWYER"
	QualificationNotary Qualification = "NOTARY"
	QualificationBoth   Qualification = "BOTH"
)

// Covers reports whether a professional with this qualification can serve
// a request for the given qualification. BOTH serves any request; a request
// for BOTH needs a professional holding both titles.
func (q Qualification) Covers(requested Qualification) bool {
	if q == QualificationBoth {
		return true
	}
	return q == requested
}

// ApprovalStatus is the admin vetting status of a professional
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ProfessionalProfile represents lawyer/notary-specific profile data.
// Coordinates are resolved from the postal code at registration and
// re-resolved whenever the postal code changes.
type ProfessionalProfile struct {
	UserID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	RegistrationNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_number"`
	Qualification      Qualification   `gorm:"type:varchar(10);not null;index" json:"qualification"`
	PostalCode         string          `gorm:"type:varchar(10);not null" json:"postal_code"`
	Latitude           float64         `gorm:"not null;default:0" json:"latitude"`
	Longitude          float64         `gorm:"not null;default:0" json:"longitude"`
	OfficeRadiusKm     float64         `gorm:"not null;default:0" json:"office_radius_km"`
	HomeVisit          bool            `gorm:"not null;default:false" json:"home_visit"`
	HomeVisitRadiusKm  float64         `gorm:"not null;default:0" json:"home_visit_radius_km"`
	Rating             float64         `gorm:"not null;default:0" json:"rating"`
	ConsultationFee    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	ApprovalStatus     ApprovalStatus  `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"approval_status"`
	Biography          string          `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User         User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Template     []TemplateInterval `gorm:"foreignKey:ProfessionalID" json:"template,omitempty"`
	BlockedDates []BlockedDate      `gorm:"foreignKey:ProfessionalID" json:"blocked_dates,omitempty"`
	Appointments []Appointment      `gorm:"foreignKey:ProfessionalID" json:"appointments,omitempty"`
}

func (ProfessionalProfile) TableName() string {
	return "professional_profiles"
}

// IsApproved checks if the professional passed admin vetting
func (p *ProfessionalProfile) IsApproved() bool {
	return p.ApprovalStatus == ApprovalApproved
}

// ServiceRadiusKm returns the radius that applies to a location mode.
// A zero radius means the professional is not matchable for that mode.
func (p *ProfessionalProfile) ServiceRadiusKm(wantsHomeVisit bool) float64 {
	if wantsHomeVisit {
		if !p.HomeVisit {
			return 0
		}
		return p.HomeVisitRadiusKm
	}
	return p.OfficeRadiusKm
}
