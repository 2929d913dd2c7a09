package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterClientRequest registers a client account with its profile
type RegisterClientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	PostalCode  string `json:"postal_code" validate:"required,min=4,max=10"`
	Address     string `json:"address" validate:"omitempty"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// RegisterProfessionalRequest registers a lawyer/notary account. The account
// stays unmatchable until an admin approves the profile.
type RegisterProfessionalRequest struct {
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password" validate:"required,min=6"`
	FullName           string  `json:"full_name" validate:"required,min=2"`
	RegistrationNumber string  `json:"registration_number" validate:"required"`
	Qualification      string  `json:"qualification" validate:"required,oneof=LAWYER NOTARY BOTH"`
	PostalCode         string  `json:"postal_code" validate:"required,min=4,max=10"`
	OfficeRadiusKm     float64 `json:"office_radius_km" validate:"required,gt=0"`
	HomeVisit          bool    `json:"home_visit"`
	HomeVisitRadiusKm  float64 `json:"home_visit_radius_km" validate:"omitempty,gte=0"`
	ConsultationFee    string  `json:"consultation_fee" validate:"omitempty"`
	Biography          string  `json:"biography" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID                  uuid.UUID                    `json:"id"`
	Email               string                       `json:"email"`
	FullName            string                       `json:"full_name"`
	Role                string                       `json:"role"`
	ProfessionalProfile *ProfessionalProfileResponse `json:"professional_profile,omitempty"`
	ClientProfile       *ClientProfileResponse       `json:"client_profile,omitempty"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
}
