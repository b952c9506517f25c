package service

import (
	"fmt"
	"time"

	"github.com/vinhtqfx07044/laptop/internal/domain"
)

// validateAppointmentDateInFuture rejects appointment dates that are
// already in the past
func validateAppointmentDateInFuture(appointmentDate, now time.Time) error {
	if !appointmentDate.IsZero() && appointmentDate.Before(now) {
		return NewValidationError("Ngày hẹn phải sau thời điểm hiện tại")
	}
	return nil
}

// validateEditable rejects any edit of a cancelled request
func validateEditable(existing *domain.Request) error {
	if existing.Status == domain.StatusCancelled {
		return NewValidationError(fmt.Sprintf("Không thể chỉnh sửa phiếu ở trạng thái %q", existing.Status.Label()))
	}
	return nil
}

// validateStatusTransition rejects transitions out of the terminal
// cancelled state. Every other transition, including backwards, is
// allowed.
func validateStatusTransition(existing *domain.Request, incoming domain.RequestStatus) error {
	if existing.Status == domain.StatusCancelled {
		return NewValidationError(fmt.Sprintf("Không thể chuyển đổi trạng thái phiếu từ %s đến %s",
			existing.Status.Label(), incoming.Label()))
	}
	return nil
}

// validateItemsForStatus requires at least one line item for every
// status except the two that represent "no work agreed yet"
func validateItemsForStatus(status domain.RequestStatus, items []domain.RequestItemPayload) error {
	if status == "" {
		return nil
	}
	if status != domain.StatusScheduled && status != domain.StatusCancelled && len(items) == 0 {
		return NewValidationError(fmt.Sprintf("Phiếu ở trạng thái %q phải có ít nhất một hạng mục dịch vụ", status.Label()))
	}
	return nil
}

// validateNoItemModificationWhenLocked rejects item changes once the
// request entered a locked status. Note-only and scalar edits stay
// allowed.
func validateNoItemModificationWhenLocked(existing *domain.Request, incoming []domain.RequestItem) error {
	if existing.Status.ItemsLocked() && !ItemsEqual(existing.Items, incoming) {
		return NewValidationError(fmt.Sprintf("Phiếu đã ở trạng thái %q và không thể thay đổi hạng mục.", existing.Status.Label()))
	}
	return nil
}
