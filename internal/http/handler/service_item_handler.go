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

type ServiceItemHandler struct {
	serviceItems *service.ServiceItemService
	logger       *zap.Logger
}

func NewServiceItemHandler(serviceItems *service.ServiceItemService, logger *zap.Logger) *ServiceItemHandler {
	return &ServiceItemHandler{
		serviceItems: serviceItems,
		logger:       logger,
	}
}

// @Summary List catalog entries
// @Tags ServiceItems
// @Produce json
// @Param search query string false "Match against entry name"
// @Param activeOnly query bool false "Only active entries"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /service-items [get]
func (h *ServiceItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	result, err := h.serviceItems.List(r.Context(), r.URL.Query().Get("search"), activeOnly, page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get a catalog entry
// @Tags ServiceItems
// @Produce json
// @Param id path string true "Service item ID"
// @Success 200 {object} domain.ServiceItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /service-items/{id} [get]
func (h *ServiceItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	dto, err := h.serviceItems.FindByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Create a catalog entry
// @Tags ServiceItems
// @Accept json
// @Produce json
// @Param serviceItem body domain.ServiceItemPayload true "Catalog entry"
// @Success 201 {object} domain.ServiceItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /service-items [post]
func (h *ServiceItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	dto, err := h.serviceItems.Create(r.Context(), payload)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Update a catalog entry
// @Tags ServiceItems
// @Accept json
// @Produce json
// @Param id path string true "Service item ID"
// @Param serviceItem body domain.ServiceItemPayload true "Catalog entry"
// @Success 200 {object} domain.ServiceItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /service-items/{id} [put]
func (h *ServiceItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	dto, err := h.serviceItems.Update(r.Context(), id, payload)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

func (h *ServiceItemHandler) decodePayload(w http.ResponseWriter, r *http.Request) (*domain.ServiceItemPayload, bool) {
	var payload domain.ServiceItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: must be valid JSON")
		return nil, false
	}
	if err := validate.Struct(&payload); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	if payload.Price.IsNegative() {
		respondWithError(w, http.StatusBadRequest, "Price must not be negative")
		return nil, false
	}
	if payload.VATRate.IsNegative() {
		respondWithError(w, http.StatusBadRequest, "VAT rate must not be negative")
		return nil, false
	}
	return &payload, true
}
