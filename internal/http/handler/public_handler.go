package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/service"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated customer endpoints:
// submitting a request, tracking it by id and recovering tracking
// links by email.
type PublicHandler struct {
	requests *service.RequestService
	logger   *zap.Logger
}

func NewPublicHandler(requests *service.RequestService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		requests: requests,
		logger:   logger,
	}
}

// @Summary Submit a repair request
// @Tags Public
// @Accept json
// @Produce json
// @Param request body domain.PublicRequestPayload true "Request details"
// @Success 201 {object} domain.RequestDTO
// @Failure 400 {object} domain.APIError
// @Router /public/requests [post]
func (h *PublicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.PublicRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: must be valid JSON")
		return
	}
	if err := validate.Struct(&payload); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.requests.PublicCreate(r.Context(), &payload)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Track a repair request
// @Tags Public
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.RequestDTO
// @Failure 404 {object} domain.APIError
// @Router /public/requests/{id} [get]
func (h *PublicHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}

	dto, err := h.requests.FindByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Recover tracking links by email
// @Description Always responds 204; whether the address exists is never revealed
// @Tags Public
// @Accept json
// @Param recover body domain.RecoverPayload true "Email address"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Router /public/recover [post]
func (h *PublicHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var payload domain.RecoverPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: must be valid JSON")
		return
	}
	if err := validate.Struct(&payload); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.requests.Recover(r.Context(), payload.Email); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
