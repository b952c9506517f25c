package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestItemPayload is a line item as submitted by the client. The
// snapshot fields (name, price, vatRate, warrantyDays) are what the
// client believes the catalog currently says; nil means the client did
// not provide a snapshot. Quantity and discount are user-authored.
type RequestItemPayload struct {
	ServiceItemID uuid.UUID        `json:"serviceItemId" validate:"required"`
	Name          string           `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	VATRate       *decimal.Decimal `json:"vatRate"`
	WarrantyDays  *int             `json:"warrantyDays"`
	Quantity      int              `json:"quantity" validate:"required,gte=1"`
	Discount      *decimal.Decimal `json:"discount"`
}

// RequestPayload is the body of a staff create/update call. It travels
// as the "request" part of a multipart form, next to image files and an
// optional operator note.
type RequestPayload struct {
	Name            string               `json:"name" validate:"required,min=3,max=100"`
	Phone           string               `json:"phone" validate:"required,len=10,startswith=0,numeric"`
	Email           string               `json:"email" validate:"omitempty,email"`
	Address         string               `json:"address" validate:"max=500"`
	BrandModel      string               `json:"brandModel" validate:"max=200"`
	SerialNumber    string               `json:"serialNumber" validate:"max=100"`
	AppointmentDate time.Time            `json:"appointmentDate" validate:"required"`
	Description     string               `json:"description" validate:"required,min=10,max=1000"`
	Status          RequestStatus        `json:"status" validate:"omitempty,oneof=SCHEDULED QUOTED APPROVE_QUOTED IN_PROGRESS COMPLETED UNDER_WARRANTY CANCELLED"`
	Items           []RequestItemPayload `json:"items" validate:"dive"`
}

// PublicRequestPayload is the customer-facing submission: contact and
// device details only, no items, no status control.
type PublicRequestPayload struct {
	Name            string    `json:"name" validate:"required,min=3,max=100"`
	Phone           string    `json:"phone" validate:"required,len=10,startswith=0,numeric"`
	Email           string    `json:"email" validate:"omitempty,email"`
	Address         string    `json:"address" validate:"max=500"`
	BrandModel      string    `json:"brandModel" validate:"max=200"`
	SerialNumber    string    `json:"serialNumber" validate:"max=100"`
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
	Description     string    `json:"description" validate:"required,min=10,max=1000"`
}

// RecoverPayload asks for the tracking links of every request tied to
// an email address.
type RecoverPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// ServiceItemPayload is the body of a catalog create/update call.
type ServiceItemPayload struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Price        decimal.Decimal `json:"price"`
	VATRate      decimal.Decimal `json:"vatRate"`
	WarrantyDays int             `json:"warrantyDays" validate:"gte=0"`
	Active       *bool           `json:"active"`
}

// LoginPayload is the staff login body.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestItemDTO is the outbound representation of a line item.
type RequestItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ServiceItemID uuid.UUID       `json:"serviceItemId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	VATRate       decimal.Decimal `json:"vatRate"`
	WarrantyDays  int             `json:"warrantyDays"`
	Quantity      int             `json:"quantity"`
	Discount      decimal.Decimal `json:"discount"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// RequestHistoryDTO is the outbound representation of an audit entry.
type RequestHistoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Changes   string    `json:"changes"`
	CreatedAt string    `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// RequestImageDTO is the outbound representation of an attached image.
type RequestImageDTO struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
}

// RequestDTO is the outbound representation of a request.
type RequestDTO struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	Email           string              `json:"email,omitempty"`
	Address         string              `json:"address,omitempty"`
	BrandModel      string              `json:"brandModel,omitempty"`
	SerialNumber    string              `json:"serialNumber,omitempty"`
	AppointmentDate string              `json:"appointmentDate"`
	Description     string              `json:"description"`
	Status          RequestStatus       `json:"status"`
	StatusLabel     string              `json:"statusLabel"`
	CompletedAt     *string             `json:"completedAt,omitempty"`
	Total           decimal.Decimal     `json:"total"`
	TotalDisplay    string              `json:"totalDisplay"`
	Items           []RequestItemDTO    `json:"items"`
	History         []RequestHistoryDTO `json:"history,omitempty"`
	Images          []RequestImageDTO   `json:"images"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
}

// ServiceItemDTO is the outbound representation of a catalog entry.
type ServiceItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	VATRate      decimal.Decimal `json:"vatRate"`
	WarrantyDays int             `json:"warrantyDays"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

// LoginResponse carries the issued staff token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
