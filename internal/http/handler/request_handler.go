package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/service"
	"go.uber.org/zap"
)

// maxRequestFormSize bounds a multipart create/update body: the image
// cap times the per-image limit plus room for the JSON part
const maxRequestFormSize = 32 << 20

type RequestHandler struct {
	requests *service.RequestService
	images   *service.ImageService
	logger   *zap.Logger
}

func NewRequestHandler(requests *service.RequestService, images *service.ImageService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		images:   images,
		logger:   logger,
	}
}

// @Summary List repair requests
// @Tags Requests
// @Produce json
// @Param search query string false "Match against customer name, phone, device model or serial number"
// @Param status query string false "Filter by status code"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		candidate := domain.RequestStatus(raw)
		if !candidate.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: "+raw)
			return
		}
		status = &candidate
	}

	result, err := h.requests.List(r.Context(), r.URL.Query().Get("search"), status, page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get a repair request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.RequestDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *RequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

// @Summary Create a repair request
// @Description Multipart form: a "request" JSON part, optional "images" files and an optional "note" field
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Param request formData string true "Request payload as JSON"
// @Param images formData file false "Images to attach"
// @Param note formData string false "Operator note for the audit trail"
// @Success 201 {object} domain.RequestDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseRequestForm(w, r)
	if !ok {
		return
	}
	defer form.Close()

	dto, err := h.requests.Create(r.Context(), form.payload, form.uploads, form.note)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Update a repair request
// @Description Multipart form: a "request" JSON part, optional "images" files, repeated "delete" filenames and an optional "note" field
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Request ID"
// @Param request formData string true "Request payload as JSON"
// @Param images formData file false "Images to add"
// @Param delete formData string false "Filenames of images to remove"
// @Param note formData string false "Operator note for the audit trail"
// @Success 200 {object} domain.RequestDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /requests/{id} [put]
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}

	form, ok := h.parseRequestForm(w, r)
	if !ok {
		return
	}
	defer form.Close()

	dto, err := h.requests.Update(r.Context(), id, form.payload, form.uploads, form.toDelete, form.note)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Download an attached image
// @Tags Requests
// @Produce image/png
// @Param id path string true "Request ID"
// @Param filename path string true "Image filename"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /requests/{id}/images/{filename} [get]
func (h *RequestHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}
	filename := chi.URLParam(r, "filename")

	rc, err := h.images.Open(r.Context(), id, filename)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeForFilename(filename))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("image download interrupted",
			zap.String("request_id", id.String()),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func contentTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// requestForm is the parsed multipart body shared by create and
// update. Close releases the opened upload files; large uploads spill
// to disk and hold descriptors until closed.
type requestForm struct {
	payload  *domain.RequestPayload
	uploads  []service.ImageUpload
	toDelete []string
	note     string
	opened   []multipart.File
}

func (f *requestForm) Close() {
	for _, file := range f.opened {
		_ = file.Close()
	}
}

// parseRequestForm reads the multipart body: the "request" JSON part,
// image files, deletion list and note. The caller must Close the form
func (h *RequestHandler) parseRequestForm(w http.ResponseWriter, r *http.Request) (*requestForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestFormSize)
	if err := r.ParseMultipartForm(maxRequestFormSize); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}

	var payload domain.RequestPayload
	if err := json.Unmarshal([]byte(r.FormValue("request")), &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: must be valid JSON")
		return nil, false
	}
	if err := validate.Struct(&payload); err != nil {
		respondValidationError(w, err)
		return nil, false
	}

	form := &requestForm{payload: &payload, note: r.FormValue("note")}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["images"]
		form.toDelete = r.MultipartForm.Value["delete"]
	}
	form.uploads = make([]service.ImageUpload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			form.Close()
			respondWithError(w, http.StatusBadRequest, "Invalid image upload: "+header.Filename)
			return nil, false
		}
		form.opened = append(form.opened, file)
		form.uploads = append(form.uploads, service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        file,
		})
	}

	return form, true
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}
