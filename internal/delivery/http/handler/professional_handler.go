package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/usecase"
	"lastwill-backend/pkg/response"
	"lastwill-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ProfessionalHandler struct {
	professionalUsecase usecase.ProfessionalUsecase
	validator           *validator.CustomValidator
}

func NewProfessionalHandler(professionalUsecase usecase.ProfessionalUsecase, validator *validator.CustomValidator) *ProfessionalHandler {
	return &ProfessionalHandler{
		professionalUsecase: professionalUsecase,
		validator:           validator,
	}
}

// GetMyProfile returns the caller's professional profile
// @Summary Get my profile
// @Tags Professionals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /professionals/me [get]
func (h *ProfessionalHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.professionalUsecase.GetMyProfile(r.Context())
	if err != nil {
		h.writeProfileError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// GetProfile returns a public professional profile
// @Summary Get a professional profile
// @Tags Professionals
// @Produce json
// @Param id path string true "Professional ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /professionals/{id} [get]
func (h *ProfessionalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := parseProfessionalID(w, r)
	if !ok {
		return
	}

	profile, err := h.professionalUsecase.GetProfile(r.Context(), professionalID)
	if err != nil {
		h.writeProfileError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateMyProfile applies partial profile changes
// @Summary Update my profile
// @Tags Professionals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfessionalProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /professionals/me [put]
func (h *ProfessionalHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfessionalProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.professionalUsecase.UpdateMyProfile(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrInvalidFee {
			response.BadRequest(w, err.Error())
			return
		}
		h.writeProfileError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

// SetTemplate replaces the weekly availability template
// @Summary Set my weekly template
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SetTemplateRequest true "Set Template Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /professionals/me/template [put]
func (h *ProfessionalHandler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.SetTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.professionalUsecase.SetTemplate(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidTimeFormat, usecase.ErrTemplateIntervalOrder:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to set template")
		}
		return
	}

	response.Success(w, http.StatusOK, "Template updated successfully", template)
}

// GetMyTemplate returns the weekly availability template
// @Summary Get my weekly template
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /professionals/me/template [get]
func (h *ProfessionalHandler) GetMyTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.professionalUsecase.GetMyTemplate(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get template")
		return
	}

	response.Success(w, http.StatusOK, "Template retrieved successfully", template)
}

// AddBlockedDate blocks a calendar range
// @Summary Add a blocked date range
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBlockedDateRequest true "Create Blocked Date Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /professionals/me/blocked-dates [post]
func (h *ProfessionalHandler) AddBlockedDate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBlockedDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	blocked, err := h.professionalUsecase.AddBlockedDate(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrBlockedRangeInvalid:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to add blocked date")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Blocked date added successfully", blocked)
}

// DeleteBlockedDate removes a blocked range
// @Summary Delete a blocked date range
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param id path int true "Blocked Date ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /professionals/me/blocked-dates/{id} [delete]
func (h *ProfessionalHandler) DeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blockedDateID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blocked date ID")
		return
	}

	if err := h.professionalUsecase.DeleteBlockedDate(r.Context(), blockedDateID); err != nil {
		if err == usecase.ErrBlockedDateNotFound {
			response.NotFound(w, "Blocked date not found")
			return
		}
		response.InternalServerError(w, "Failed to delete blocked date")
		return
	}

	response.Success(w, http.StatusOK, "Blocked date deleted successfully", nil)
}

// GetMyBlockedDates lists the caller's blocked ranges
// @Summary List my blocked dates
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /professionals/me/blocked-dates [get]
func (h *ProfessionalHandler) GetMyBlockedDates(w http.ResponseWriter, r *http.Request) {
	blocked, err := h.professionalUsecase.GetMyBlockedDates(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get blocked dates")
		return
	}

	response.Success(w, http.StatusOK, "Blocked dates retrieved successfully", blocked)
}

// GetAvailableSlots lists a professional's bookable windows
// @Summary List available slots
// @Description List bookable windows in [from, to); dates are YYYY-MM-DD
// @Tags Availability
// @Produce json
// @Param id path string true "Professional ID"
// @Param from query string false "Range start date"
// @Param to query string false "Range end date"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /professionals/{id}/slots [get]
func (h *ProfessionalHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := parseProfessionalID(w, r)
	if !ok {
		return
	}

	from := time.Now().UTC()
	to := from.AddDate(0, 0, 14)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Invalid from date, use YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Invalid to date, use YYYY-MM-DD")
			return
		}
		to = parsed
	}

	slots, err := h.professionalUsecase.GetAvailableSlots(r.Context(), professionalID, from, to)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateRange:
			response.BadRequest(w, err.Error())
		case usecase.ErrProfileNotFound:
			response.NotFound(w, "Professional not found")
		default:
			response.InternalServerError(w, "Failed to get slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// ListProfessionals lists every profile for admin review
// @Summary List professionals
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/professionals [get]
func (h *ProfessionalHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	professionals, err := h.professionalUsecase.ListProfessionals(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list professionals")
		return
	}

	response.Success(w, http.StatusOK, "Professionals retrieved successfully", professionals)
}

// Approve records the admin vetting decision
// @Summary Approve or reject a professional
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Professional ID"
// @Param request body dto.ApproveProfessionalRequest true "Approve Professional Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/professionals/{id}/approval [post]
func (h *ProfessionalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := parseProfessionalID(w, r)
	if !ok {
		return
	}

	var req dto.ApproveProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.professionalUsecase.Approve(r.Context(), professionalID, &req)
	if err != nil {
		switch err {
		case usecase.ErrProfileNotFound:
			response.NotFound(w, "Professional not found")
		case usecase.ErrApprovalAlreadyDecided:
			response.Conflict(w, response.CodeInvalidTransition, "Approval status already decided", nil)
		default:
			response.InternalServerError(w, "Failed to update approval")
		}
		return
	}

	response.Success(w, http.StatusOK, "Approval updated successfully", profile)
}

// Deactivate disables a professional's account
// @Summary Deactivate a professional
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Professional ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/professionals/{id}/deactivate [post]
func (h *ProfessionalHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := parseProfessionalID(w, r)
	if !ok {
		return
	}

	if err := h.professionalUsecase.Deactivate(r.Context(), professionalID); err != nil {
		if err == usecase.ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to deactivate professional")
		return
	}

	response.Success(w, http.StatusOK, "Professional deactivated successfully", nil)
}

func (h *ProfessionalHandler) writeProfileError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrProfileNotFound) {
		response.NotFound(w, "Professional profile not found")
		return
	}
	response.InternalServerError(w, fallback)
}

func parseProfessionalID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	professionalID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return uuid.Nil, false
	}
	return professionalID, true
}
