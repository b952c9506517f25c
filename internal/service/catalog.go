package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"gorm.io/gorm"
)

// CatalogValidator checks submitted line items against the live
// service catalog and rebuilds their snapshots from it. Requests carry
// frozen copies of catalog fields so history stays stable; an actively
// edited request must agree with the catalog at edit time.
type CatalogValidator struct {
	serviceItems *repository.ServiceItemRepository
}

func NewCatalogValidator(serviceItems *repository.ServiceItemRepository) *CatalogValidator {
	return &CatalogValidator{serviceItems: serviceItems}
}

// WithTx returns a copy of the validator whose catalog reads run on
// the given transaction handle
func (v *CatalogValidator) WithTx(tx *gorm.DB) *CatalogValidator {
	return &CatalogValidator{serviceItems: v.serviceItems.WithTx(tx)}
}

// RefreshItems resolves every payload against the active catalog in
// one query, reports all snapshot drift at once, then returns items
// with snapshots rebuilt from the catalog. Quantity and discount are
// kept as submitted.
func (v *CatalogValidator) RefreshItems(ctx context.Context, payloads []domain.RequestItemPayload) ([]domain.RequestItem, error) {
	if len(payloads) == 0 {
		return []domain.RequestItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(payloads))
	for _, p := range payloads {
		ids = append(ids, p.ServiceItemID)
	}

	catalogEntries, err := v.serviceItems.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog entries: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.ServiceItem, len(catalogEntries))
	for i := range catalogEntries {
		byID[catalogEntries[i].ID] = &catalogEntries[i]
	}

	// Every drift across every item is collected before failing, so
	// the caller refreshes once instead of retrying field by field
	var drift strings.Builder
	for _, p := range payloads {
		entry, ok := byID[p.ServiceItemID]
		if !ok {
			return nil, NewNotFoundError("Không tìm dịch vụ sửa chửa: " + p.Name)
		}
		appendDrift(&drift, &p, entry)
	}
	if drift.Len() > 0 {
		drift.WriteString("Vui lòng làm mới trang và thử lại.")
		return nil, NewConflictError(drift.String())
	}

	items := make([]domain.RequestItem, 0, len(payloads))
	for _, p := range payloads {
		entry := byID[p.ServiceItemID]
		discount := decimal.Zero
		if p.Discount != nil {
			discount = *p.Discount
		}
		if discount.GreaterThan(entry.Price) {
			return nil, NewValidationError("Giảm giá vượt quá giá gốc: " + entry.Name)
		}
		items = append(items, domain.RequestItem{
			ServiceItemID: entry.ID,
			Name:          entry.Name,
			Price:         entry.Price,
			VATRate:       entry.VATRate,
			WarrantyDays:  entry.WarrantyDays,
			Quantity:      p.Quantity,
			Discount:      discount,
		})
	}

	return items, nil
}

// appendDrift records every snapshot field that no longer matches the
// catalog. Fields the client did not send are skipped.
func appendDrift(drift *strings.Builder, p *domain.RequestItemPayload, entry *domain.ServiceItem) {
	if p.Price != nil && !p.Price.Equal(entry.Price) {
		fmt.Fprintf(drift, "Giá dịch vụ '%s' đã thay đổi từ %s thành %s. ",
			entry.Name, p.Price.String(), entry.Price.String())
	}
	if p.VATRate != nil && !p.VATRate.Equal(entry.VATRate) {
		hundred := decimal.NewFromInt(100)
		fmt.Fprintf(drift, "VAT dịch vụ '%s' đã thay đổi từ %s%% thành %s%%. ",
			entry.Name, p.VATRate.Mul(hundred).String(), entry.VATRate.Mul(hundred).String())
	}
	if p.WarrantyDays != nil && *p.WarrantyDays != entry.WarrantyDays {
		fmt.Fprintf(drift, "Thời hạn bảo hành dịch vụ '%s' đã thay đổi từ %d ngày thành %d ngày. ",
			entry.Name, *p.WarrantyDays, entry.WarrantyDays)
	}
}
