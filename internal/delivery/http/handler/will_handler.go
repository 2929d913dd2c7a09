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

type WillHandler struct {
	willUsecase usecase.WillUsecase
	validator   *validator.CustomValidator
}

func NewWillHandler(willUsecase usecase.WillUsecase, validator *validator.CustomValidator) *WillHandler {
	return &WillHandler{
		willUsecase: willUsecase,
		validator:   validator,
	}
}

// NotifyDeath handles a death notification against a registered will
// @Summary Report a client's death
// @Description Record a death notification and start will execution; repeats are idempotent
// @Tags Wills
// @Accept json
// @Produce json
// @Param request body dto.NotifyDeathRequest true "Notify Death Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /wills/death-notifications [post]
func (h *WillHandler) NotifyDeath(w http.ResponseWriter, r *http.Request) {
	var req dto.NotifyDeathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.willUsecase.NotifyDeath(r.Context(), &req)
	if err != nil {
		var ambiguous *usecase.AmbiguousWillError
		switch {
		case err == usecase.ErrWillNotFound:
			response.NotFound(w, "No will matches the notification")
		case err == usecase.ErrDeceasedUnmatched:
			response.BadRequest(w, "Notification must identify the deceased")
		case errors.As(err, &ambiguous):
			response.Conflict(w, response.CodeAmbiguousMatch, "Notification matches several wills", ambiguous.Candidates)
		default:
			response.InternalServerError(w, "Failed to process death notification")
		}
		return
	}

	response.Success(w, http.StatusOK, "Death notification processed", result)
}

// MarkExecuted handles the administrative close-out of a will
// @Summary Mark a will executed
// @Description Record that the estate settlement finished
// @Tags Wills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Will Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /wills/{id}/executed [post]
func (h *WillHandler) MarkExecuted(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}

	will, err := h.willUsecase.MarkExecuted(r.Context(), willID)
	if err != nil {
		h.writeWillError(w, err, "Failed to mark will executed")
		return
	}

	response.Success(w, http.StatusOK, "Will marked executed", will)
}

// GetByID returns one will record to an involved party
// @Summary Get a will record
// @Tags Wills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Will Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /wills/{id} [get]
func (h *WillHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}

	will, err := h.willUsecase.GetByID(r.Context(), willID)
	if err != nil {
		h.writeWillError(w, err, "Failed to get will record")
		return
	}

	response.Success(w, http.StatusOK, "Will record retrieved successfully", will)
}

// GetMy lists the caller's will records
// @Summary List my wills
// @Tags Wills
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /wills [get]
func (h *WillHandler) GetMy(w http.ResponseWriter, r *http.Request) {
	wills, err := h.willUsecase.GetMyWills(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get wills")
		return
	}

	response.Success(w, http.StatusOK, "Wills retrieved successfully", wills)
}

func (h *WillHandler) writeWillError(w http.ResponseWriter, err error, fallback string) {
	var transitionErr *entity.InvalidTransitionError
	switch {
	case err == usecase.ErrWillNotFound:
		response.NotFound(w, "Will record not found")
	case err == usecase.ErrWillNotOwned:
		response.Forbidden(w, "Will record does not belong to you")
	case errors.As(err, &transitionErr):
		response.Conflict(w, response.CodeInvalidTransition, transitionErr.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func parseWillID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	willID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.BadRequest(w, "Invalid will record ID")
		return uuid.Nil, false
	}
	return willID, true
}
