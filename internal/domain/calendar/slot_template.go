package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// Window is one bookable time range within a day, half-open [Start, End)
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotTemplate describes how a resource's calendar is materialized:
// which windows exist on each day and how many parties each holds.
// The template itself is not persisted; generated slots are.
type SlotTemplate struct {
	Windows     []Window
	MaxCapacity int
}

// Validate checks window formats, ordering and capacity
func (t SlotTemplate) Validate() error {
	if len(t.Windows) == 0 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Template must define at least one window")
	}
	if t.MaxCapacity <= 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity must be positive")
	}
	for i, w := range t.Windows {
		if !ValidClock(w.Start) || !ValidClock(w.End) {
			return shared.NewDomainError("INVALID_WINDOW", "Window times must be in HH:MM format")
		}
		if w.Start >= w.End {
			return shared.NewDomainError("INVALID_WINDOW", "Window start must be before window end")
		}
		for _, prev := range t.Windows[:i] {
			if WindowsOverlap(prev.Start, prev.End, w.Start, w.End) {
				return shared.NewDomainError("INVALID_TEMPLATE", "Template windows must not overlap")
			}
		}
	}
	return nil
}

// FullDayTemplate is a single all-day window, the natural template for
// nightly resources like room types.
func FullDayTemplate(maxCapacity int) SlotTemplate {
	return SlotTemplate{
		Windows:     []Window{{Start: "00:00", End: "23:59"}},
		MaxCapacity: maxCapacity,
	}
}

// Materialize builds the slots the template prescribes for one resource
// over [from, from+horizonDays). The caller persists them with
// duplicate-skipping inserts so regeneration stays idempotent.
func (t SlotTemplate) Materialize(tenantID, propertyID, resourceID uuid.UUID, from time.Time, horizonDays int) ([]*CapacitySlot, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		return nil, shared.NewDomainError("INVALID_HORIZON", "Horizon must be at least one day")
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	slots := make([]*CapacitySlot, 0, horizonDays*len(t.Windows))
	for d := 0; d < horizonDays; d++ {
		date := day.AddDate(0, 0, d)
		for _, w := range t.Windows {
			slot, err := NewCapacitySlot(tenantID, propertyID, resourceID, date, w.Start, w.End, t.MaxCapacity)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}
	}
	return slots, nil
}
