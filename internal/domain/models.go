package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinhtqfx07044/laptop/internal/currency"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id client-side. Function-call column
// defaults are Postgres-only DDL, so ids are never left to the database
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// RequestStatus represents the lifecycle status of a repair request
type RequestStatus string

const (
	StatusScheduled     RequestStatus = "SCHEDULED"
	StatusQuoted        RequestStatus = "QUOTED"
	StatusApproveQuoted RequestStatus = "APPROVE_QUOTED"
	StatusInProgress    RequestStatus = "IN_PROGRESS"
	StatusCompleted     RequestStatus = "COMPLETED"
	StatusUnderWarranty RequestStatus = "UNDER_WARRANTY"
	StatusCancelled     RequestStatus = "CANCELLED"
)

var statusLabels = map[RequestStatus]string{
	StatusScheduled:     "Đã lên lịch",
	StatusQuoted:        "Đã báo giá",
	StatusApproveQuoted: "Đã duyệt báo giá",
	StatusInProgress:    "Đang thực hiện",
	StatusCompleted:     "Hoàn thành",
	StatusUnderWarranty: "Đang bảo hành",
	StatusCancelled:     "Đã hủy",
}

// Label returns the customer-facing display name for the status
func (s RequestStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s RequestStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ItemsLocked reports whether the item list may no longer be edited.
// Completed and under-warranty requests keep their billed items frozen;
// cancelled requests are terminal.
func (s RequestStatus) ItemsLocked() bool {
	return s == StatusCompleted || s == StatusUnderWarranty || s == StatusCancelled
}

// Request represents a repair request made by a customer
type Request struct {
	BaseModel
	Name            string        `gorm:"type:varchar(100);not null"`
	Phone           string        `gorm:"type:varchar(20);not null;index"`
	Email           string        `gorm:"type:varchar(255);index"`
	Address         string        `gorm:"type:varchar(500)"`
	BrandModel      string        `gorm:"type:varchar(200);column:brand_model"`
	SerialNumber    string        `gorm:"type:varchar(100);column:serial_number"`
	AppointmentDate time.Time     `gorm:"not null;index;column:appointment_date"`
	Description     string        `gorm:"type:text;not null"`
	Status          RequestStatus `gorm:"type:varchar(30);not null;default:'SCHEDULED';index"`
	CompletedAt     *time.Time    `gorm:"column:completed_at"`
	Items           []RequestItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	History         []RequestHistory `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Images          []RequestImage   `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// Total returns the request total: the sum of all item line totals,
// rounded to whole dong.
func (r *Request) Total() decimal.Decimal {
	lines := make([]currency.Line, len(r.Items))
	for i, item := range r.Items {
		lines[i] = currency.Line{
			Price:    item.Price,
			Discount: item.Discount,
			Quantity: item.Quantity,
			VATRate:  item.VATRate,
		}
	}
	return currency.RequestTotal(lines)
}

// RequestItem is a billable line on a request. It references a catalog
// service item by id and carries a frozen snapshot of the catalog fields
// (name, price, vatRate, warrantyDays) taken at attach/refresh time, so
// historical invoices stay stable when the catalog is later edited.
// Quantity and discount are user-authored and never overwritten.
type RequestItem struct {
	BaseModel
	RequestID     uuid.UUID       `gorm:"type:uuid;not null;index;column:request_id"`
	ServiceItemID uuid.UUID       `gorm:"type:uuid;not null;column:service_item_id"`
	Name          string          `gorm:"type:varchar(255)"`
	Price         decimal.Decimal `gorm:"type:numeric(15,2)"`
	VATRate       decimal.Decimal `gorm:"type:numeric(5,4);not null;column:vat_rate"`
	WarrantyDays  int             `gorm:"not null;default:0;column:warranty_days"`
	Quantity      int             `gorm:"not null;default:1"`
	Discount      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
}

// LineTotal returns (price - discount) * quantity * (1 + vatRate),
// rounded half-up to whole dong.
func (i *RequestItem) LineTotal() decimal.Decimal {
	return currency.LineTotal(i.Price, i.Discount, i.Quantity, i.VATRate)
}

// StructurallyEqual compares two items by content, ignoring identity and
// decimal scale noise ("100000" equals "100000.00").
func (i *RequestItem) StructurallyEqual(other *RequestItem) bool {
	return i.ServiceItemID == other.ServiceItemID &&
		i.Name == other.Name &&
		i.WarrantyDays == other.WarrantyDays &&
		i.Quantity == other.Quantity &&
		i.Price.Equal(other.Price) &&
		i.VATRate.Equal(other.VATRate) &&
		i.Discount.Equal(other.Discount)
}

// RequestHistory is an append-only audit entry on a request.
// Rows are never updated or deleted once written.
type RequestHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index;column:request_id"`
	Changes   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	CreatedBy string    `gorm:"type:varchar(100);not null;column:created_by"`
}

func (h *RequestHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// RequestImage records an image file attached to a request. The bytes
// live in external storage under the request's directory; only the
// generated filename is persisted here.
type RequestImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index;column:request_id"`
	Filename  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (i *RequestImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ServiceItem is a catalog entry: an independently editable service/price
// definition that request items snapshot from.
type ServiceItem struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Price        decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	VATRate      decimal.Decimal `gorm:"type:numeric(5,4);not null;column:vat_rate"`
	WarrantyDays int             `gorm:"not null;default:0;column:warranty_days"`
	Active       bool            `gorm:"not null;index"`
}
