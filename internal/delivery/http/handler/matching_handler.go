package handler

import (
	"encoding/json"
	"net/http"

	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/usecase"
	"lastwill-backend/pkg/response"
	"lastwill-backend/pkg/validator"
)

type MatchingHandler struct {
	matchingUsecase usecase.MatchingUsecase
	validator       *validator.CustomValidator
}

func NewMatchingHandler(matchingUsecase usecase.MatchingUsecase, validator *validator.CustomValidator) *MatchingHandler {
	return &MatchingHandler{
		matchingUsecase: matchingUsecase,
		validator:       validator,
	}
}

// Search handles a ranked candidate search
// @Summary Find matching professionals
// @Description Rank approved professionals serving the client's location with real availability
// @Tags Matching
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MatchSearchRequest true "Match Search Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /matching/search [post]
func (h *MatchingHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	candidates, err := h.matchingUsecase.FindCandidates(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrClientPostalUnknown:
			response.NotFound(w, "Postal code could not be resolved")
		default:
			response.InternalServerError(w, "Failed to search candidates")
		}
		return
	}

	response.Success(w, http.StatusOK, "Candidates retrieved successfully", candidates)
}
