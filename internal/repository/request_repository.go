package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given
// transaction handle
func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Save persists the request's scalar fields. Collections are written
// through their explicit methods, never cascaded.
func (r *RequestRepository) Save(ctx context.Context, request *domain.Request) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(request).Error
}

// GetByID loads a request with every owned collection
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	var request domain.Request
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Images").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByIDWithItems loads a request with items and images only, the
// shape the update path works on
func (r *RequestRepository) GetByIDWithItems(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	var request domain.Request
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Images").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns a page of requests matching the keyword and status
// filters, newest appointment first. The keyword matches customer
// name, phone, device model and serial number.
func (r *RequestRepository) List(ctx context.Context, keyword string, status *domain.RequestStatus, page, pageSize int) ([]domain.Request, int64, error) {
	var requests []domain.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Request{}).Preload("Items")

	if keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(brand_model) LIKE ? OR LOWER(serial_number) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("appointment_date DESC").Find(&requests).Error

	return requests, total, err
}

// FindByEmail returns every request registered with the given email,
// newest first
func (r *RequestRepository) FindByEmail(ctx context.Context, email string) ([]domain.Request, error) {
	var requests []domain.Request
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ReplaceItems swaps the request's line items for the given set
func (r *RequestRepository) ReplaceItems(ctx context.Context, requestID uuid.UUID, items []domain.RequestItem) error {
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&domain.RequestItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].RequestID = requestID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// AddImage records an uploaded image
func (r *RequestRepository) AddImage(ctx context.Context, image *domain.RequestImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// DeleteImage removes an image record by filename
func (r *RequestRepository) DeleteImage(ctx context.Context, requestID uuid.UUID, filename string) error {
	return r.db.WithContext(ctx).
		Where("request_id = ? AND filename = ?", requestID, filename).
		Delete(&domain.RequestImage{}).Error
}

// AddHistory appends an audit trail entry
func (r *RequestRepository) AddHistory(ctx context.Context, entry *domain.RequestHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// AllImageFilenames returns every image filename known to the
// database, keyed by request. Used by the orphan sweep job.
func (r *RequestRepository) AllImageFilenames(ctx context.Context) (map[uuid.UUID]map[string]bool, error) {
	var images []domain.RequestImage
	if err := r.db.WithContext(ctx).Find(&images).Error; err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]map[string]bool)
	for _, img := range images {
		if known[img.RequestID] == nil {
			known[img.RequestID] = make(map[string]bool)
		}
		known[img.RequestID][img.Filename] = true
	}
	return known, nil
}
