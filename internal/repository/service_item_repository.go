package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"gorm.io/gorm"
)

type ServiceItemRepository struct {
	db *gorm.DB
}

func NewServiceItemRepository(db *gorm.DB) *ServiceItemRepository {
	return &ServiceItemRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given
// transaction handle
func (r *ServiceItemRepository) WithTx(tx *gorm.DB) *ServiceItemRepository {
	return &ServiceItemRepository{db: tx}
}

func (r *ServiceItemRepository) Create(ctx context.Context, item *domain.ServiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ServiceItemRepository) Save(ctx context.Context, item *domain.ServiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ServiceItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceItem, error) {
	var item domain.ServiceItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindActiveByIDs returns the active catalog entries among the given
// ids, in one query
func (r *ServiceItemRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.ServiceItem, error) {
	var items []domain.ServiceItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&items).Error
	return items, err
}

// ExistsByNameExcluding reports whether another catalog entry already
// uses the name. excludeID is uuid.Nil on create.
func (r *ServiceItemRepository) ExistsByNameExcluding(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.ServiceItem{}).
		Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// List returns a page of catalog entries matching the keyword,
// optionally restricted to active ones
func (r *ServiceItemRepository) List(ctx context.Context, keyword string, activeOnly bool, page, pageSize int) ([]domain.ServiceItem, int64, error) {
	var items []domain.ServiceItem
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ServiceItem{})

	if keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&items).Error

	return items, total, err
}
