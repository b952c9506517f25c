package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/mapper"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceItemService manages the repair service catalog
type ServiceItemService struct {
	serviceItems *repository.ServiceItemRepository
	logger       *zap.Logger
}

func NewServiceItemService(serviceItems *repository.ServiceItemRepository, logger *zap.Logger) *ServiceItemService {
	return &ServiceItemService{
		serviceItems: serviceItems,
		logger:       logger,
	}
}

// Create adds a catalog entry with a unique name
func (s *ServiceItemService) Create(ctx context.Context, payload *domain.ServiceItemPayload) (*domain.ServiceItemDTO, error) {
	if err := s.validateUniqueName(ctx, payload.Name, uuid.Nil); err != nil {
		return nil, err
	}

	item := &domain.ServiceItem{
		Name:         strings.TrimSpace(payload.Name),
		Price:        payload.Price,
		VATRate:      payload.VATRate,
		WarrantyDays: payload.WarrantyDays,
		Active:       true,
	}
	if payload.Active != nil {
		item.Active = *payload.Active
	}

	if err := s.serviceItems.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create service item: %w", err)
	}

	s.logger.Info("service item created",
		zap.String("service_item_id", item.ID.String()),
		zap.String("name", item.Name),
	)
	return mapper.ToServiceItemDTO(item), nil
}

// FindByID returns a catalog entry
func (s *ServiceItemService) FindByID(ctx context.Context, id uuid.UUID) (*domain.ServiceItemDTO, error) {
	item, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToServiceItemDTO(item), nil
}

// Update replaces a catalog entry's fields. Requests that already
// snapshotted the old values are unaffected; they reconcile against
// the new values on their next edit.
func (s *ServiceItemService) Update(ctx context.Context, id uuid.UUID, payload *domain.ServiceItemPayload) (*domain.ServiceItemDTO, error) {
	item, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateUniqueName(ctx, payload.Name, id); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(payload.Name)
	item.Price = payload.Price
	item.VATRate = payload.VATRate
	item.WarrantyDays = payload.WarrantyDays
	if payload.Active != nil {
		item.Active = *payload.Active
	}

	if err := s.serviceItems.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update service item: %w", err)
	}

	return mapper.ToServiceItemDTO(item), nil
}

// List returns a page of catalog entries
func (s *ServiceItemService) List(ctx context.Context, keyword string, activeOnly bool, page, pageSize int) (*domain.PaginatedResponse, error) {
	items, total, err := s.serviceItems.List(ctx, strings.TrimSpace(keyword), activeOnly, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list service items: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       mapper.ToServiceItemDTOs(items),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ServiceItemService) findByID(ctx context.Context, id uuid.UUID) (*domain.ServiceItem, error) {
	item, err := s.serviceItems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Không tìm thấy dịch vụ với ID: " + id.String())
		}
		return nil, fmt.Errorf("failed to load service item: %w", err)
	}
	return item, nil
}

func (s *ServiceItemService) validateUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.serviceItems.ExistsByNameExcluding(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return fmt.Errorf("failed to check service item name: %w", err)
	}
	if exists {
		return NewValidationError("Tên dịch vụ đã tồn tại. Vui lòng chọn tên khác")
	}
	return nil
}
