package converter

import (
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
)

// WillRecordToResponse converts a WillRecord entity to its response DTO.
// The will payload is deliberately not exposed here; only the execution
// workflow surfaces it to authorized parties.
func WillRecordToResponse(will *entity.WillRecord) *dto.WillRecordResponse {
	if will == nil {
		return nil
	}

	return &dto.WillRecordResponse{
		ID:             will.ID,
		AppointmentID:  will.AppointmentID,
		ClientID:       will.ClientID,
		ProfessionalID: will.ProfessionalID,
		Status:         string(will.Status),
		ExecutedAt:     will.ExecutedAt,
		CreatedAt:      will.CreatedAt,
	}
}

// WillRecordsToResponses converts a slice of WillRecord entities
func WillRecordsToResponses(wills []entity.WillRecord) []dto.WillRecordResponse {
	responses := make([]dto.WillRecordResponse, len(wills))
	for i := range wills {
		responses[i] = *WillRecordToResponse(&wills[i])
	}
	return responses
}

// WillRecordToCandidateSummary builds the disambiguation summary for an
// ambiguous death notification lookup
func WillRecordToCandidateSummary(will *entity.WillRecord) dto.WillCandidateSummary {
	return dto.WillCandidateSummary{
		WillRecordID:  will.ID,
		ClientID:      will.ClientID,
		ClientName:    will.Client.User.FullName,
		AppointmentID: will.AppointmentID,
		CreatedAt:     will.CreatedAt,
	}
}
