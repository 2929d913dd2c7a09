package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type UpdateProfessionalProfileRequest struct {
	FullName          string   `json:"full_name" validate:"omitempty,min=2"`
	PostalCode        string   `json:"postal_code" validate:"omitempty,min=4,max=10"`
	OfficeRadiusKm    *float64 `json:"office_radius_km" validate:"omitempty,gt=0"`
	HomeVisit         *bool    `json:"home_visit" validate:"omitempty"`
	HomeVisitRadiusKm *float64 `json:"home_visit_radius_km" validate:"omitempty,gte=0"`
	ConsultationFee   string   `json:"consultation_fee" validate:"omitempty"`
	Biography         *string  `json:"biography" validate:"omitempty"`
}

// ApproveProfessionalRequest is the admin vetting decision
type ApproveProfessionalRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type ProfessionalProfileResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	FullName           string    `json:"full_name,omitempty"`
	Email              string    `json:"email,omitempty"`
	RegistrationNumber string    `json:"registration_number"`
	Qualification      string    `json:"qualification"`
	PostalCode         string    `json:"postal_code"`
	OfficeRadiusKm     float64   `json:"office_radius_km"`
	HomeVisit          bool      `json:"home_visit"`
	HomeVisitRadiusKm  float64   `json:"home_visit_radius_km"`
	Rating             float64   `json:"rating"`
	ConsultationFee    string    `json:"consultation_fee"`
	ApprovalStatus     string    `json:"approval_status"`
	Biography          string    `json:"biography,omitempty"`
}

type ProfessionalListResponse struct {
	Professionals []ProfessionalProfileResponse `json:"professionals"`
	Total         int                           `json:"total"`
}

type ClientProfileResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Address     string    `json:"address,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
}
