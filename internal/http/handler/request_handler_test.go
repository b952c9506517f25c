package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtqfx07044/laptop/internal/domain"
)

func buildRequestForm(t *testing.T, payload *domain.RequestPayload, images map[string][]byte, deletes []string, note string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("request", string(raw)))

	for name, data := range images {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for _, del := range deletes {
		require.NoError(t, mw.WriteField("delete", del))
	}
	if note != "" {
		require.NoError(t, mw.WriteField("note", note))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validRequestPayload() *domain.RequestPayload {
	return &domain.RequestPayload{
		Name:            "Nguyễn Văn An",
		Phone:           "0901234567",
		Email:           "an@example.com",
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Description:     "Máy không lên nguồn, cần kiểm tra",
	}
}

func TestParseRequestForm(t *testing.T) {
	h := &RequestHandler{}
	req := buildRequestForm(t, validRequestPayload(),
		map[string][]byte{"photo.png": []byte("fake png bytes")},
		[]string{"old.png"},
		"Ghi chú kiểm tra",
	)
	w := httptest.NewRecorder()

	form, ok := h.parseRequestForm(w, req)
	require.True(t, ok)
	defer form.Close()

	assert.Equal(t, "Nguyễn Văn An", form.payload.Name)
	assert.Equal(t, []string{"old.png"}, form.toDelete)
	assert.Equal(t, "Ghi chú kiểm tra", form.note)

	require.Len(t, form.uploads, 1)
	assert.Equal(t, "photo.png", form.uploads[0].Filename)
	assert.Equal(t, int64(len("fake png bytes")), form.uploads[0].Size)
	data, err := io.ReadAll(form.uploads[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))

	// every opened upload file is tracked for cleanup
	assert.Len(t, form.opened, 1)
}

func TestParseRequestFormCloseIsIdempotent(t *testing.T) {
	h := &RequestHandler{}
	req := buildRequestForm(t, validRequestPayload(),
		map[string][]byte{"a.png": []byte("a"), "b.jpg": []byte("b")}, nil, "")
	w := httptest.NewRecorder()

	form, ok := h.parseRequestForm(w, req)
	require.True(t, ok)
	require.Len(t, form.opened, 2)

	form.Close()
	form.Close()
}

func TestParseRequestFormRejectsBadJSON(t *testing.T) {
	h := &RequestHandler{}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("request", "{not json"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	form, ok := h.parseRequestForm(w, req)
	assert.False(t, ok)
	assert.Nil(t, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseRequestFormRejectsInvalidPayload(t *testing.T) {
	h := &RequestHandler{}
	payload := validRequestPayload()
	payload.Phone = "123" // not a 10-digit phone

	req := buildRequestForm(t, payload, nil, nil, "")
	w := httptest.NewRecorder()

	form, ok := h.parseRequestForm(w, req)
	assert.False(t, ok)
	assert.Nil(t, form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "phone")
}
