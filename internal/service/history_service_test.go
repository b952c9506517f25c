package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtqfx07044/laptop/internal/clock"
	"github.com/vinhtqfx07044/laptop/internal/domain"
)

func fixedHistoryService() *HistoryService {
	return NewHistoryService(clock.Fixed{Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)})
}

func TestAddRecord(t *testing.T) {
	s := fixedHistoryService()
	request := &domain.Request{}
	request.ID = uuid.New()

	s.AddRecord(request, "Tạo mới yêu cầu", "admin")

	require.Len(t, request.History, 1)
	entry := request.History[0]
	assert.Equal(t, request.ID, entry.RequestID)
	assert.Equal(t, "Tạo mới yêu cầu", entry.Changes)
	assert.Equal(t, "admin", entry.CreatedBy)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), entry.CreatedAt)
}

func TestAddRecord_TruncatesLongChanges(t *testing.T) {
	s := fixedHistoryService()
	request := &domain.Request{}

	// Multi-byte text must be cut on rune boundaries
	long := strings.Repeat("ư", 600)
	s.AddRecord(request, long, "admin")

	require.Len(t, request.History, 1)
	changes := request.History[0].Changes
	assert.Equal(t, 503, len([]rune(changes)))
	assert.True(t, strings.HasSuffix(changes, "..."))
	assert.Equal(t, strings.Repeat("ư", 500), strings.TrimSuffix(changes, "..."))
}

func TestComputeChanges_NothingChanged(t *testing.T) {
	s := fixedHistoryService()
	r := &domain.Request{Status: domain.StatusQuoted}
	assert.Equal(t, "", s.ComputeChanges(r, r))
}

func TestComputeChanges_StatusAndDate(t *testing.T) {
	s := fixedHistoryService()
	before := &domain.Request{
		Status:          domain.StatusScheduled,
		AppointmentDate: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	after := &domain.Request{
		Status:          domain.StatusQuoted,
		AppointmentDate: time.Date(2025, 6, 3, 14, 30, 0, 0, time.UTC),
	}

	changes := s.ComputeChanges(before, after)
	assert.Equal(t,
		"Trạng thái: Đã lên lịch → Đã báo giá\n"+
			"Ngày hẹn: 02/06/2025 09:00 → 03/06/2025 14:30",
		changes)
}

func TestComputeChanges_ItemsAndTotal(t *testing.T) {
	s := fixedHistoryService()
	item := domain.RequestItem{
		ServiceItemID: uuid.New(),
		Name:          "Thay pin",
		Price:         decimal.RequireFromString("900000"),
		VATRate:       decimal.RequireFromString("0.1"),
		Quantity:      1,
		Discount:      decimal.Zero,
	}
	before := &domain.Request{Status: domain.StatusQuoted}
	after := &domain.Request{Status: domain.StatusQuoted, Items: []domain.RequestItem{item}}

	changes := s.ComputeChanges(before, after)
	assert.Equal(t,
		"Cập nhật hạng mục sửa chữa\n"+
			"Tổng tiền: 0 → 990,000 VND",
		changes)
}

func TestItemsEqual(t *testing.T) {
	a := domain.RequestItem{ServiceItemID: uuid.New(), Name: "A", Price: decimal.RequireFromString("100"), Quantity: 1}
	b := domain.RequestItem{ServiceItemID: uuid.New(), Name: "B", Price: decimal.RequireFromString("200"), Quantity: 2}

	assert.True(t, ItemsEqual(nil, nil))
	assert.True(t, ItemsEqual([]domain.RequestItem{a, b}, []domain.RequestItem{b, a}), "order must not matter")
	assert.False(t, ItemsEqual([]domain.RequestItem{a}, []domain.RequestItem{a, b}))
	assert.False(t, ItemsEqual([]domain.RequestItem{a, a}, []domain.RequestItem{a, b}))

	// Scale differences are not changes
	c := a
	c.Price = decimal.RequireFromString("100.00")
	assert.True(t, ItemsEqual([]domain.RequestItem{a}, []domain.RequestItem{c}))
}
