package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/auth"
	"github.com/vinhtqfx07044/laptop/internal/clock"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/mailer"
	"github.com/vinhtqfx07044/laptop/internal/mapper"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequestService orchestrates the repair request lifecycle: creation,
// updates with their validation chain, audit trail, image
// reconciliation and customer notifications. Each create/update runs
// as one database transaction; notifications fire after commit and
// never affect the outcome.
type RequestService struct {
	requests *repository.RequestRepository
	catalog  *CatalogValidator
	history  *HistoryService
	images   *ImageService
	notifier mailer.Notifier
	actor    auth.CurrentActor
	clock    clock.Clock
	logger   *zap.Logger
	db       *gorm.DB
}

func NewRequestService(
	requests *repository.RequestRepository,
	catalog *CatalogValidator,
	history *HistoryService,
	images *ImageService,
	notifier mailer.Notifier,
	actor auth.CurrentActor,
	clk clock.Clock,
	logger *zap.Logger,
	db *gorm.DB,
) *RequestService {
	return &RequestService{
		requests: requests,
		catalog:  catalog,
		history:  history,
		images:   images,
		notifier: notifier,
		actor:    actor,
		clock:    clk,
		logger:   logger,
		db:       db,
	}
}

// FindByID returns a request with items, images and history
func (s *RequestService) FindByID(ctx context.Context, id uuid.UUID) (*domain.RequestDTO, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Không tìm thấy yêu cầu với ID: " + id.String())
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return mapper.ToRequestDTO(request), nil
}

// List returns a page of requests filtered by keyword and status
func (s *RequestService) List(ctx context.Context, keyword string, status *domain.RequestStatus, page, pageSize int) (*domain.PaginatedResponse, error) {
	requests, total, err := s.requests.List(ctx, keyword, status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       mapper.ToRequestDTOs(requests),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Create registers a new request on behalf of staff. The status is
// always the initial one regardless of what the client sent; items
// are snapshotted from the catalog; images are stored after the
// request row exists so they land in its directory.
func (s *RequestService) Create(ctx context.Context, payload *domain.RequestPayload, newImages []ImageUpload, note string) (*domain.RequestDTO, error) {
	request := &domain.Request{}
	request.ID = uuid.New()
	mapper.ApplyRequestScalars(request, payload)
	request.Status = domain.StatusScheduled

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRequests := s.requests.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		items, err := txCatalog.RefreshItems(ctx, payload.Items)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].RequestID = request.ID
		}
		request.Items = items

		changes := "Tạo mới yêu cầu"
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			changes += "\nGhi chú: " + trimmed
		}
		s.history.AddRecord(request, changes, s.actor.Actor(ctx))

		if err := txRequests.Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		images, err := s.images.Reconcile(ctx, request, newImages, nil)
		if err != nil {
			return err
		}
		for i := range images {
			if err := txRequests.AddImage(ctx, &images[i]); err != nil {
				return fmt.Errorf("failed to record image: %w", err)
			}
		}
		request.Images = images

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request created",
		zap.String("request_id", request.ID.String()),
		zap.Int("items", len(request.Items)),
		zap.Int("images", len(request.Images)),
	)
	s.notifier.NotifyCreated(request)

	return s.FindByID(ctx, request.ID)
}

// Update applies a staff edit to an existing request: the state
// machine checks run first in a fixed order, then images are
// reconciled, items refreshed against the catalog unless locked,
// scalars copied, and the computed diff recorded.
func (s *RequestService) Update(ctx context.Context, id uuid.UUID, payload *domain.RequestPayload, newImages []ImageUpload, toDelete []string, note string) (*domain.RequestDTO, error) {
	var updated *domain.Request
	var combinedNote string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRequests := s.requests.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)

		existing, err := txRequests.GetByIDWithItems(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Không tìm thấy yêu cầu với ID: " + id.String())
			}
			return fmt.Errorf("failed to load request: %w", err)
		}

		incomingStatus := payload.Status
		if incomingStatus == "" {
			incomingStatus = existing.Status
		}
		incomingItems := mapper.ToRequestItems(payload.Items)

		if err := validateEditable(existing); err != nil {
			return err
		}
		if err := validateStatusTransition(existing, incomingStatus); err != nil {
			return err
		}
		if err := validateItemsForStatus(incomingStatus, payload.Items); err != nil {
			return err
		}
		if err := validateNoItemModificationWhenLocked(existing, incomingItems); err != nil {
			return err
		}

		// Snapshot for the audit diff
		before := *existing
		before.Items = append([]domain.RequestItem(nil), existing.Items...)

		if existing.Status != domain.StatusCompleted && incomingStatus == domain.StatusCompleted {
			completedAt := s.clock.Now()
			existing.CompletedAt = &completedAt
		}

		images, err := s.images.Reconcile(ctx, existing, newImages, toDelete)
		if err != nil {
			return err
		}

		var items []domain.RequestItem
		if existing.Status.ItemsLocked() {
			items = incomingItems
		} else {
			items, err = txCatalog.RefreshItems(ctx, payload.Items)
			if err != nil {
				return err
			}
		}

		mapper.ApplyRequestScalars(existing, payload)
		existing.Status = incomingStatus

		if err := txRequests.ReplaceItems(ctx, existing.ID, items); err != nil {
			return fmt.Errorf("failed to replace items: %w", err)
		}
		existing.Items = items

		if err := s.reconcileImageRecords(ctx, txRequests, existing, before.Images, images); err != nil {
			return err
		}
		existing.Images = images

		var noteParts strings.Builder
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			noteParts.WriteString("Ghi chú: " + trimmed + "\n")
		}
		noteParts.WriteString(s.history.ComputeChanges(&before, existing))
		combinedNote = strings.TrimSpace(noteParts.String())

		if combinedNote != "" {
			s.history.AddRecord(existing, combinedNote, s.actor.Actor(ctx))
			entry := &existing.History[len(existing.History)-1]
			if err := txRequests.AddHistory(ctx, entry); err != nil {
				return fmt.Errorf("failed to record history: %w", err)
			}
		}

		if err := txRequests.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request updated",
		zap.String("request_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	s.notifier.NotifyUpdated(updated, combinedNote)

	return s.FindByID(ctx, updated.ID)
}

// reconcileImageRecords aligns the image rows with the reconciled
// list: rows for deleted files go away, uploads get new rows
func (s *RequestService) reconcileImageRecords(ctx context.Context, txRequests *repository.RequestRepository, request *domain.Request, loaded, result []domain.RequestImage) error {
	kept := make(map[string]bool, len(result))
	for _, img := range result {
		kept[img.Filename] = true
	}
	for _, img := range loaded {
		if !kept[img.Filename] {
			if err := txRequests.DeleteImage(ctx, request.ID, img.Filename); err != nil {
				return fmt.Errorf("failed to delete image record: %w", err)
			}
		}
	}

	existed := make(map[string]bool, len(loaded))
	for _, img := range loaded {
		existed[img.Filename] = true
	}
	for i := range result {
		if !existed[result[i].Filename] {
			if err := txRequests.AddImage(ctx, &result[i]); err != nil {
				return fmt.Errorf("failed to record image: %w", err)
			}
		}
	}
	return nil
}

// PublicCreate registers a customer-submitted request: no items, no
// images, appointment must be in the future
func (s *RequestService) PublicCreate(ctx context.Context, payload *domain.PublicRequestPayload) (*domain.RequestDTO, error) {
	if err := validateAppointmentDateInFuture(payload.AppointmentDate, s.clock.Now()); err != nil {
		return nil, err
	}

	request := &domain.Request{
		Name:            payload.Name,
		Phone:           payload.Phone,
		Email:           payload.Email,
		Address:         payload.Address,
		BrandModel:      payload.BrandModel,
		SerialNumber:    payload.SerialNumber,
		AppointmentDate: payload.AppointmentDate,
		Description:     payload.Description,
		Status:          domain.StatusScheduled,
	}
	request.ID = uuid.New()

	s.history.AddRecord(request, "Tạo mới yêu cầu", auth.PublicActor)

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info("public request created", zap.String("request_id", request.ID.String()))
	s.notifier.NotifyCreated(request)

	return s.FindByID(ctx, request.ID)
}

// Recover emails the tracking links registered to an address. An
// unknown address is a silent no-op so the endpoint does not reveal
// which emails exist.
func (s *RequestService) Recover(ctx context.Context, email string) error {
	requests, err := s.requests.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up requests: %w", err)
	}
	if len(requests) == 0 {
		return nil
	}

	s.notifier.NotifyRecovery(email, requests)
	return nil
}
