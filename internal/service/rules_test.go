package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vinhtqfx07044/laptop/internal/domain"
)

func TestValidateAppointmentDateInFuture(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, validateAppointmentDateInFuture(now.Add(time.Hour), now))
	assert.NoError(t, validateAppointmentDateInFuture(time.Time{}, now))

	err := validateAppointmentDateInFuture(now.Add(-time.Hour), now)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Ngày hẹn phải sau thời điểm hiện tại", err.Error())
}

func TestValidateEditable(t *testing.T) {
	assert.NoError(t, validateEditable(&domain.Request{Status: domain.StatusInProgress}))

	err := validateEditable(&domain.Request{Status: domain.StatusCancelled})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `Không thể chỉnh sửa phiếu ở trạng thái "Đã hủy"`, err.Error())
}

func TestValidateStatusTransition(t *testing.T) {
	existing := &domain.Request{Status: domain.StatusCompleted}
	// Backwards transitions are allowed
	assert.NoError(t, validateStatusTransition(existing, domain.StatusInProgress))

	cancelled := &domain.Request{Status: domain.StatusCancelled}
	err := validateStatusTransition(cancelled, domain.StatusScheduled)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Không thể chuyển đổi trạng thái phiếu từ Đã hủy đến Đã lên lịch", err.Error())
}

func TestValidateItemsForStatus(t *testing.T) {
	items := []domain.RequestItemPayload{{Quantity: 1}}

	// Statuses with no agreed work yet may be empty
	assert.NoError(t, validateItemsForStatus(domain.StatusScheduled, nil))
	assert.NoError(t, validateItemsForStatus(domain.StatusCancelled, nil))
	assert.NoError(t, validateItemsForStatus("", nil))

	assert.NoError(t, validateItemsForStatus(domain.StatusQuoted, items))

	err := validateItemsForStatus(domain.StatusQuoted, nil)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `Phiếu ở trạng thái "Đã báo giá" phải có ít nhất một hạng mục dịch vụ`, err.Error())

	err = validateItemsForStatus(domain.StatusCompleted, nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateNoItemModificationWhenLocked(t *testing.T) {
	item := domain.RequestItem{Name: "Thay pin", Quantity: 1}
	existing := &domain.Request{
		Status: domain.StatusCompleted,
		Items:  []domain.RequestItem{item},
	}

	// Identical list passes
	assert.NoError(t, validateNoItemModificationWhenLocked(existing, []domain.RequestItem{item}))

	changed := item
	changed.Quantity = 2
	err := validateNoItemModificationWhenLocked(existing, []domain.RequestItem{changed})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `Phiếu đã ở trạng thái "Hoàn thành" và không thể thay đổi hạng mục.`, err.Error())

	// Unlocked statuses never trip this rule
	open := &domain.Request{Status: domain.StatusQuoted, Items: []domain.RequestItem{item}}
	assert.NoError(t, validateNoItemModificationWhenLocked(open, []domain.RequestItem{changed}))
}
