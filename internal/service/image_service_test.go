package service

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/testutil"
)

func newImageService(store *testutil.MemoryStorage) *ImageService {
	cfg := &config.UploadConfig{
		MaxImagesPerRequest: 3,
		MaxImageSizeBytes:   5_000_000,
	}
	return NewImageService(store, cfg, zap.NewNop())
}

func pngUpload(name string, size int) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(size),
		Data:        bytes.NewReader(bytes.Repeat([]byte{0x1}, size)),
	}
}

func requestWithImages(filenames ...string) *domain.Request {
	r := &domain.Request{}
	r.ID = uuid.New()
	for _, f := range filenames {
		r.Images = append(r.Images, domain.RequestImage{
			ID:        uuid.New(),
			RequestID: r.ID,
			Filename:  f,
		})
	}
	return r
}

func TestReconcile_UploadsAndRecords(t *testing.T) {
	store := testutil.NewMemoryStorage()
	s := newImageService(store)
	request := requestWithImages()

	images, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{
		pngUpload("front.png", 100),
		pngUpload("back.jpg", 200),
	}, nil)
	require.NoError(t, err)

	assert.Len(t, images, 2)
	assert.Equal(t, 2, store.Len())
	for _, img := range images {
		assert.Equal(t, request.ID, img.RequestID)
		assert.NotEqual(t, uuid.Nil, img.ID)
		assert.NotEmpty(t, img.Filename)
	}
	// The request entity is left untouched
	assert.Empty(t, request.Images)
}

func TestReconcile_MissingRequest(t *testing.T) {
	s := newImageService(testutil.NewMemoryStorage())

	_, err := s.Reconcile(testutil.Ctx(), &domain.Request{}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Không tìm thấy phiếu sửa chữa.", err.Error())
}

func TestReconcile_CapRejectsWholeBatch(t *testing.T) {
	store := testutil.NewMemoryStorage()
	s := newImageService(store)
	request := requestWithImages("a.png", "b.png")

	_, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{
		pngUpload("c.png", 100),
		pngUpload("d.png", 100),
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Tối đa 3 ảnh cho mỗi yêu cầu", err.Error())
	// Nothing was written before the cap check failed
	assert.Equal(t, 0, store.Len())
}

func TestReconcile_DeletionsFreeCapacity(t *testing.T) {
	store := testutil.NewMemoryStorage()
	s := newImageService(store)
	request := requestWithImages("a.png", "b.png", "c.png")
	for _, img := range request.Images {
		store.Put(request.ID, img.Filename, []byte("x"))
	}

	images, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{
		pngUpload("new.png", 100),
	}, []string{"a.png"})
	require.NoError(t, err)

	assert.Len(t, images, 3)
	filenames := make(map[string]bool)
	for _, img := range images {
		filenames[img.Filename] = true
	}
	assert.False(t, filenames["a.png"])
	assert.True(t, filenames["b.png"])
	assert.True(t, filenames["c.png"])
}

func TestReconcile_EmptyUploadsAreSkipped(t *testing.T) {
	store := testutil.NewMemoryStorage()
	s := newImageService(store)
	request := requestWithImages()

	// Browsers submit an empty file part when the field is left blank
	empty := ImageUpload{Filename: "", ContentType: "application/octet-stream", Size: 0, Data: bytes.NewReader(nil)}
	images, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{empty}, nil)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 0, store.Len())
}

func TestReconcile_RejectsNonImage(t *testing.T) {
	s := newImageService(testutil.NewMemoryStorage())
	request := requestWithImages()

	upload := ImageUpload{
		Filename:    "notes.pdf",
		ContentType: "application/pdf",
		Size:        100,
		Data:        bytes.NewReader([]byte("pdf")),
	}
	_, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{upload}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Chỉ hỗ trợ ảnh (PNG, JPG)", err.Error())
}

func TestReconcile_RejectsOversizedImage(t *testing.T) {
	s := newImageService(testutil.NewMemoryStorage())
	request := requestWithImages()

	upload := ImageUpload{
		Filename:    "huge.png",
		ContentType: "image/png",
		Size:        5_000_001,
		Data:        bytes.NewReader([]byte("x")),
	}
	_, err := s.Reconcile(testutil.Ctx(), request, []ImageUpload{upload}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Ảnh quá lớn (tối đa 5MB)", err.Error())
}

func TestOpen(t *testing.T) {
	store := testutil.NewMemoryStorage()
	s := newImageService(store)
	requestID := uuid.New()
	store.Put(requestID, "photo.png", []byte("content"))

	rc, err := s.Open(testutil.Ctx(), requestID, "photo.png")
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)

	_, err = s.Open(testutil.Ctx(), requestID, "missing.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Không tìm thấy ảnh: missing.png", err.Error())
}
