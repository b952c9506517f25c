package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/storage"
	"go.uber.org/zap"
)

// ImageUpload is one submitted image file
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// ImageService reconciles a request's attached images: deletions
// first, then uploads, with the cap and per-file checks applied before
// anything is written.
type ImageService struct {
	storage   storage.Storage
	maxImages int
	maxSize   int64
	logger    *zap.Logger
}

func NewImageService(store storage.Storage, cfg *config.UploadConfig, logger *zap.Logger) *ImageService {
	return &ImageService{
		storage:   store,
		maxImages: cfg.MaxImagesPerRequest,
		maxSize:   cfg.MaxImageSizeBytes,
		logger:    logger,
	}
}

// Reconcile applies the requested deletions and uploads against the
// request's current image list and returns the resulting list. The
// request entity itself is not mutated.
func (s *ImageService) Reconcile(ctx context.Context, request *domain.Request, newImages []ImageUpload, toDelete []string) ([]domain.RequestImage, error) {
	if request.ID == uuid.Nil {
		return nil, NewNotFoundError("Không tìm thấy phiếu sửa chữa.")
	}

	current := make([]domain.RequestImage, len(request.Images))
	copy(current, request.Images)

	current, err := s.deleteImages(ctx, request.ID, current, toDelete)
	if err != nil {
		return nil, err
	}

	return s.uploadImages(ctx, request.ID, current, newImages)
}

// Open returns an attached image's content for download
func (s *ImageService) Open(ctx context.Context, requestID uuid.UUID, filename string) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, requestID, filename)
	if err != nil {
		return nil, NewNotFoundError("Không tìm thấy ảnh: " + filename)
	}
	return rc, nil
}

// deleteImages removes the named files from storage and from the
// list. Deleting an already-missing file is a no-op.
func (s *ImageService) deleteImages(ctx context.Context, requestID uuid.UUID, current []domain.RequestImage, toDelete []string) ([]domain.RequestImage, error) {
	if len(toDelete) == 0 {
		return current, nil
	}

	for _, filename := range toDelete {
		if err := s.storage.DeleteIfExists(ctx, requestID, filename); err != nil {
			return nil, NewValidationError("Lỗi xóa ảnh: " + err.Error())
		}
		kept := current[:0]
		for _, img := range current {
			if img.Filename != filename {
				kept = append(kept, img)
			}
		}
		current = kept
	}

	return current, nil
}

// uploadImages stores the submitted files and appends their records.
// The cap is checked against the post-delete list before any file is
// written, so an oversized batch is rejected whole.
func (s *ImageService) uploadImages(ctx context.Context, requestID uuid.UUID, current []domain.RequestImage, newImages []ImageUpload) ([]domain.RequestImage, error) {
	if len(newImages) == 0 {
		return current, nil
	}

	count := len(current)
	for _, upload := range newImages {
		if upload.Size > 0 {
			count++
		}
	}
	if count > s.maxImages {
		return nil, NewValidationError(fmt.Sprintf("Tối đa %d ảnh cho mỗi yêu cầu", s.maxImages))
	}

	for _, upload := range newImages {
		if upload.Size == 0 {
			continue
		}
		if err := s.validateImage(&upload); err != nil {
			return nil, err
		}

		filename, size, err := s.storage.Save(ctx, requestID, upload.Filename, upload.ContentType, upload.Data)
		if err != nil {
			return nil, NewValidationError("Lỗi lưu ảnh: " + err.Error())
		}
		s.logger.Debug("image stored",
			zap.String("request_id", requestID.String()),
			zap.String("filename", filename),
			zap.Int64("size", size),
		)

		current = append(current, domain.RequestImage{
			ID:        uuid.New(),
			RequestID: requestID,
			Filename:  filename,
		})
	}

	return current, nil
}

func (s *ImageService) validateImage(upload *ImageUpload) error {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return NewValidationError("Chỉ hỗ trợ ảnh (PNG, JPG)")
	}
	if upload.Size > s.maxSize {
		return NewValidationError("Ảnh quá lớn (tối đa 5MB)")
	}
	return nil
}
