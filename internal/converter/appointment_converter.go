package converter

import (
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to its response DTO.
// Party names are filled when the relationships are loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               appointment.ID,
		ClientID:         appointment.ClientID,
		ProfessionalID:   appointment.ProfessionalID,
		RequestedStart:   appointment.RequestedStart,
		RequestedEnd:     appointment.RequestedEnd,
		ConfirmedStart:   appointment.ConfirmedStart,
		ConfirmedEnd:     appointment.ConfirmedEnd,
		LocationMode:     string(appointment.LocationMode),
		Address:          appointment.Address,
		Status:           string(appointment.Status),
		Fee:              appointment.Fee.String(),
		CancelledReason:  appointment.CancelledReason,
		ClientName:       appointment.Client.User.FullName,
		ProfessionalName: appointment.Professional.User.FullName,
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}

	if appointment.WillRecord != nil {
		response.WillRecordID = &appointment.WillRecord.ID
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
