package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// MatchSearchRequest is a client's search for a qualified professional
// near a postal code.
type MatchSearchRequest struct {
	PostalCode    string `json:"postal_code" validate:"required,min=4,max=10"`
	Qualification string `json:"qualification" validate:"required,oneof=LAWYER NOTARY BOTH"`
	HomeVisit     bool   `json:"home_visit"`
}

// Response DTOs

// CandidateResponse is one ranked match. EarliestSlot is a real bookable
// window, not a template projection.
type CandidateResponse struct {
	ProfessionalID    uuid.UUID `json:"professional_id"`
	FullName          string    `json:"full_name"`
	Qualification     string    `json:"qualification"`
	DistanceKm        float64   `json:"distance_km"`
	Rating            float64   `json:"rating"`
	ConsultationFee   string    `json:"consultation_fee"`
	HomeVisit         bool      `json:"home_visit"`
	EarliestSlotStart time.Time `json:"earliest_slot_start"`
	EarliestSlotEnd   time.Time `json:"earliest_slot_end"`
	Biography         string    `json:"biography,omitempty"`
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}
