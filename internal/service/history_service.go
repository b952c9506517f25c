package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/clock"
	"github.com/vinhtqfx07044/laptop/internal/currency"
	"github.com/vinhtqfx07044/laptop/internal/domain"
)

// maxHistoryChangesLen caps a single audit entry; longer texts are cut
// and marked with an ellipsis
const maxHistoryChangesLen = 500

// appointmentDateLayout is how appointment dates appear in audit
// entries and emails
const appointmentDateLayout = "02/01/2006 15:04"

// HistoryService builds the audit trail of a request: appending
// records and computing human-readable diffs between two states.
type HistoryService struct {
	clock clock.Clock
}

func NewHistoryService(clk clock.Clock) *HistoryService {
	return &HistoryService{clock: clk}
}

// AddRecord appends an audit entry to the request, truncating the
// changes text to the storage limit
func (s *HistoryService) AddRecord(request *domain.Request, changes, user string) {
	if runes := []rune(changes); len(runes) > maxHistoryChangesLen {
		changes = string(runes[:maxHistoryChangesLen]) + "..."
	}

	request.History = append(request.History, domain.RequestHistory{
		ID:        uuid.New(),
		RequestID: request.ID,
		Changes:   changes,
		CreatedAt: s.clock.Now(),
		CreatedBy: user,
	})
}

// ComputeChanges renders the differences between two request states
// as one line per changed aspect: status, appointment date, items and
// total. Returns an empty string when nothing relevant changed.
func (s *HistoryService) ComputeChanges(before, after *domain.Request) string {
	var changes strings.Builder

	if before.Status != after.Status {
		changes.WriteString(fmt.Sprintf("Trạng thái: %s → %s\n", before.Status.Label(), after.Status.Label()))
	}

	if !before.AppointmentDate.Equal(after.AppointmentDate) {
		changes.WriteString(fmt.Sprintf("Ngày hẹn: %s → %s\n",
			before.AppointmentDate.Format(appointmentDateLayout),
			after.AppointmentDate.Format(appointmentDateLayout)))
	}

	if !ItemsEqual(before.Items, after.Items) {
		changes.WriteString("Cập nhật hạng mục sửa chữa\n")
	}

	oldTotal := before.Total()
	newTotal := after.Total()
	if !oldTotal.Equal(newTotal) {
		changes.WriteString(fmt.Sprintf("Tổng tiền: %s → %s VND\n",
			currency.Format(oldTotal), currency.Format(newTotal)))
	}

	return strings.TrimSpace(changes.String())
}

// ItemsEqual compares two item lists structurally, ignoring order and
// identity. Snapshot decimals compare by value, so trailing zero noise
// does not register as a change.
func ItemsEqual(oldItems, newItems []domain.RequestItem) bool {
	if len(oldItems) != len(newItems) {
		return false
	}

	matched := make([]bool, len(newItems))
	for i := range oldItems {
		found := false
		for j := range newItems {
			if !matched[j] && oldItems[i].StructurallyEqual(&newItems[j]) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
