package mapper

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vinhtqfx07044/laptop/internal/currency"
	"github.com/vinhtqfx07044/laptop/internal/domain"
)

// ToRequestItems converts submitted item payloads into entities as
// the client sent them, without consulting the catalog. Used on the
// locked-items path where the submitted set must equal the stored one.
func ToRequestItems(payloads []domain.RequestItemPayload) []domain.RequestItem {
	items := make([]domain.RequestItem, 0, len(payloads))
	for _, p := range payloads {
		item := domain.RequestItem{
			ServiceItemID: p.ServiceItemID,
			Name:          p.Name,
			Quantity:      p.Quantity,
			Discount:      decimal.Zero,
		}
		if p.Price != nil {
			item.Price = *p.Price
		}
		if p.VATRate != nil {
			item.VATRate = *p.VATRate
		}
		if p.WarrantyDays != nil {
			item.WarrantyDays = *p.WarrantyDays
		}
		if p.Discount != nil {
			item.Discount = *p.Discount
		}
		items = append(items, item)
	}
	return items
}

// ApplyRequestScalars copies the editable scalar fields from a payload
// onto a request entity. Status, items, images and history are handled
// by the caller.
func ApplyRequestScalars(target *domain.Request, p *domain.RequestPayload) {
	target.Name = p.Name
	target.Phone = p.Phone
	target.Email = p.Email
	target.Address = p.Address
	target.BrandModel = p.BrandModel
	target.SerialNumber = p.SerialNumber
	target.AppointmentDate = p.AppointmentDate
	target.Description = p.Description
}

// ToRequestDTO maps a request entity with its collections
func ToRequestDTO(r *domain.Request) *domain.RequestDTO {
	dto := &domain.RequestDTO{
		ID:              r.ID,
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		Address:         r.Address,
		BrandModel:      r.BrandModel,
		SerialNumber:    r.SerialNumber,
		AppointmentDate: r.AppointmentDate.Format(time.RFC3339),
		Description:     r.Description,
		Status:          r.Status,
		StatusLabel:     r.Status.Label(),
		Total:           r.Total(),
		TotalDisplay:    currency.Format(r.Total()),
		Items:           make([]domain.RequestItemDTO, 0, len(r.Items)),
		Images:          make([]domain.RequestImageDTO, 0, len(r.Images)),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}

	if r.CompletedAt != nil {
		completedAt := r.CompletedAt.Format(time.RFC3339)
		dto.CompletedAt = &completedAt
	}

	for i := range r.Items {
		dto.Items = append(dto.Items, ToRequestItemDTO(&r.Items[i]))
	}
	for i := range r.Images {
		dto.Images = append(dto.Images, domain.RequestImageDTO{
			ID:       r.Images[i].ID,
			Filename: r.Images[i].Filename,
		})
	}
	for i := range r.History {
		dto.History = append(dto.History, domain.RequestHistoryDTO{
			ID:        r.History[i].ID,
			Changes:   r.History[i].Changes,
			CreatedAt: r.History[i].CreatedAt.Format(time.RFC3339),
			CreatedBy: r.History[i].CreatedBy,
		})
	}

	return dto
}

// ToRequestItemDTO maps a line item with its computed total
func ToRequestItemDTO(item *domain.RequestItem) domain.RequestItemDTO {
	return domain.RequestItemDTO{
		ID:            item.ID,
		ServiceItemID: item.ServiceItemID,
		Name:          item.Name,
		Price:         item.Price,
		VATRate:       item.VATRate,
		WarrantyDays:  item.WarrantyDays,
		Quantity:      item.Quantity,
		Discount:      item.Discount,
		LineTotal:     item.LineTotal(),
	}
}

// ToRequestDTOs maps a slice of requests
func ToRequestDTOs(requests []domain.Request) []domain.RequestDTO {
	dtos := make([]domain.RequestDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, *ToRequestDTO(&requests[i]))
	}
	return dtos
}

// ToServiceItemDTO maps a catalog entry
func ToServiceItemDTO(item *domain.ServiceItem) *domain.ServiceItemDTO {
	return &domain.ServiceItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Price:        item.Price,
		VATRate:      item.VATRate,
		WarrantyDays: item.WarrantyDays,
		Active:       item.Active,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

// ToServiceItemDTOs maps a slice of catalog entries
func ToServiceItemDTOs(items []domain.ServiceItem) []domain.ServiceItemDTO {
	dtos := make([]domain.ServiceItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToServiceItemDTO(&items[i]))
	}
	return dtos
}
