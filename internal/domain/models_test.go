package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_Label(t *testing.T) {
	assert.Equal(t, "Đã lên lịch", StatusScheduled.Label())
	assert.Equal(t, "Hoàn thành", StatusCompleted.Label())
	assert.Equal(t, "Đã hủy", StatusCancelled.Label())

	// Unknown statuses fall back to the raw value
	assert.Equal(t, "BOGUS", RequestStatus("BOGUS").Label())
}

func TestRequestStatus_IsValid(t *testing.T) {
	for _, s := range []RequestStatus{
		StatusScheduled, StatusQuoted, StatusApproveQuoted,
		StatusInProgress, StatusCompleted, StatusUnderWarranty, StatusCancelled,
	} {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, RequestStatus("BOGUS").IsValid())
	assert.False(t, RequestStatus("").IsValid())
}

func TestRequestStatus_ItemsLocked(t *testing.T) {
	assert.True(t, StatusCompleted.ItemsLocked())
	assert.True(t, StatusUnderWarranty.ItemsLocked())
	assert.True(t, StatusCancelled.ItemsLocked())

	assert.False(t, StatusScheduled.ItemsLocked())
	assert.False(t, StatusQuoted.ItemsLocked())
	assert.False(t, StatusApproveQuoted.ItemsLocked())
	assert.False(t, StatusInProgress.ItemsLocked())
}

func TestRequestItem_StructurallyEqual_IgnoresScale(t *testing.T) {
	serviceItemID := uuid.New()
	a := RequestItem{
		ServiceItemID: serviceItemID,
		Name:          "Thay màn hình",
		Price:         decimal.RequireFromString("100000"),
		VATRate:       decimal.RequireFromString("0.1"),
		WarrantyDays:  30,
		Quantity:      1,
		Discount:      decimal.Zero,
	}
	b := a
	b.Price = decimal.RequireFromString("100000.00")
	b.Discount = decimal.RequireFromString("0.00")

	assert.True(t, a.StructurallyEqual(&b))
}

func TestRequestItem_StructurallyEqual_DetectsChanges(t *testing.T) {
	a := RequestItem{
		ServiceItemID: uuid.New(),
		Name:          "Thay màn hình",
		Price:         decimal.RequireFromString("100000"),
		VATRate:       decimal.RequireFromString("0.1"),
		Quantity:      1,
	}

	b := a
	b.Quantity = 2
	assert.False(t, a.StructurallyEqual(&b))

	c := a
	c.Price = decimal.RequireFromString("120000")
	assert.False(t, a.StructurallyEqual(&c))

	d := a
	d.ServiceItemID = uuid.New()
	assert.False(t, a.StructurallyEqual(&d))
}

func TestRequest_Total(t *testing.T) {
	r := Request{
		Items: []RequestItem{
			{Price: decimal.RequireFromString("100000"), Discount: decimal.RequireFromString("10000"), Quantity: 2, VATRate: decimal.RequireFromString("0.1")},
			{Price: decimal.RequireFromString("50000"), Discount: decimal.Zero, Quantity: 1, VATRate: decimal.Zero},
		},
	}
	assert.True(t, r.Total().Equal(decimal.RequireFromString("248000")), "got %s", r.Total())
}

func TestRequest_Total_NoItems(t *testing.T) {
	r := Request{}
	assert.True(t, r.Total().Equal(decimal.Zero))
}
