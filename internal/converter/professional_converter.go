package converter

import (
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
)

// ProfessionalProfileToResponse converts a ProfessionalProfile entity to its
// response DTO. User fields are filled when the relationship is loaded.
func ProfessionalProfileToResponse(profile *entity.ProfessionalProfile) *dto.ProfessionalProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfessionalProfileResponse{
		UserID:             profile.UserID,
		FullName:           profile.User.FullName,
		Email:              profile.User.Email,
		RegistrationNumber: profile.RegistrationNumber,
		Qualification:      string(profile.Qualification),
		PostalCode:         profile.PostalCode,
		OfficeRadiusKm:     profile.OfficeRadiusKm,
		HomeVisit:          profile.HomeVisit,
		HomeVisitRadiusKm:  profile.HomeVisitRadiusKm,
		Rating:             profile.Rating,
		ConsultationFee:    profile.ConsultationFee.String(),
		ApprovalStatus:     string(profile.ApprovalStatus),
		Biography:          profile.Biography,
	}
}

// ProfessionalProfilesToResponses converts a slice of ProfessionalProfile entities
func ProfessionalProfilesToResponses(profiles []entity.ProfessionalProfile) []dto.ProfessionalProfileResponse {
	responses := make([]dto.ProfessionalProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProfessionalProfileToResponse(&profiles[i])
	}
	return responses
}

// CandidateToResponse converts a matched professional plus its ranking
// inputs into a CandidateResponse DTO
func CandidateToResponse(profile *entity.ProfessionalProfile, distanceKm float64, earliestSlot entity.TimeWindow) *dto.CandidateResponse {
	if profile == nil {
		return nil
	}

	return &dto.CandidateResponse{
		ProfessionalID:    profile.UserID,
		FullName:          profile.User.FullName,
		Qualification:     string(profile.Qualification),
		DistanceKm:        distanceKm,
		Rating:            profile.Rating,
		ConsultationFee:   profile.ConsultationFee.String(),
		HomeVisit:         profile.HomeVisit,
		EarliestSlotStart: earliestSlot.Start,
		EarliestSlotEnd:   earliestSlot.End,
		Biography:         profile.Biography,
	}
}
