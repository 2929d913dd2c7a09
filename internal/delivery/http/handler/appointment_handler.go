package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/usecase"
	"lastwill-backend/pkg/response"
	"lastwill-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Create handles an appointment request from a client
// @Summary Request an appointment
// @Description Create a PENDING appointment request for an approved professional
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Request(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrProfessionalNotFound:
			response.NotFound(w, "Professional not found")
		case usecase.ErrProfessionalNotActive:
			response.Forbidden(w, "Professional is not accepting appointments")
		case usecase.ErrHomeVisitNotOffered:
			response.BadRequest(w, "Professional does not offer home visits")
		case usecase.ErrInvalidDateRange, usecase.ErrAppointmentInPast:
			response.BadRequest(w, err.Error())
		case usecase.ErrSlotUnavailable:
			response.Conflict(w, response.CodeSlotConflict, "Requested slot is not available", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

// Confirm handles a professional accepting a pending request
// @Summary Confirm an appointment
// @Description Confirm a PENDING appointment, optionally with an alternate slot
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.ConfirmAppointmentRequest false "Confirm Appointment Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	var req dto.ConfirmAppointmentRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if (req.AlternateStart == nil) != (req.AlternateEnd == nil) {
		response.BadRequest(w, "Alternate slot needs both start and end")
		return
	}

	appointment, err := h.appointmentUsecase.Confirm(r.Context(), appointmentID, &req)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to confirm appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment confirmed successfully", appointment)
}

// Cancel handles either party abandoning a request or confirmed meeting
// @Summary Cancel an appointment
// @Description Cancel a PENDING or CONFIRMED appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CancelAppointmentRequest false "Cancel Appointment Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), appointmentID, &req); err != nil {
		h.writeLifecycleError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

// Reject handles the professional declining a pending request. Rejection
// shares the cancel transition; only the surface name differs.
// @Summary Reject an appointment request
// @Description Decline a PENDING appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CancelAppointmentRequest false "Reject Appointment Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/reject [post]
func (h *AppointmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), appointmentID, &req); err != nil {
		h.writeLifecycleError(w, err, "Failed to reject appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rejected successfully", nil)
}

// Begin handles the professional opening the meeting
// @Summary Begin an appointment
// @Description Move a CONFIRMED appointment to IN_PROGRESS
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/begin [post]
func (h *AppointmentHandler) Begin(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Begin(r.Context(), appointmentID)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to begin appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment begun successfully", appointment)
}

// Complete handles closing out the meeting and registering the will
// @Summary Complete an appointment
// @Description Complete an IN_PROGRESS appointment and create the will record
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CompleteAppointmentRequest true "Complete Appointment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	var req dto.CompleteAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	will, err := h.appointmentUsecase.Complete(r.Context(), appointmentID, &req)
	if err != nil {
		if err == usecase.ErrEmptyWillPayload {
			response.BadRequest(w, "Will payload must not be empty")
			return
		}
		h.writeLifecycleError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", will)
}

// GetByID returns one appointment to one of its parties
// @Summary Get an appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseAppointmentID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), appointmentID)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// GetMy lists the caller's appointments
// @Summary List my appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetMy(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// writeLifecycleError maps appointment lifecycle failures onto stable codes
func (h *AppointmentHandler) writeLifecycleError(w http.ResponseWriter, err error, fallback string) {
	var transitionErr *entity.InvalidTransitionError
	switch {
	case err == usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case err == usecase.ErrAppointmentNotOwned:
		response.Forbidden(w, "Appointment does not belong to you")
	case err == usecase.ErrSlotConflict:
		response.Conflict(w, response.CodeSlotConflict, "Slot was taken by a concurrent confirmation", nil)
	case err == usecase.ErrInvalidDateRange:
		response.BadRequest(w, err.Error())
	case errors.As(err, &transitionErr):
		response.Conflict(w, response.CodeInvalidTransition, transitionErr.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func parseAppointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return uuid.Nil, false
	}
	return appointmentID, true
}
