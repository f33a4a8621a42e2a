package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CapacitySlotRepository defines persistence for the capacity calendar
type CapacitySlotRepository interface {
	// FindByID finds a slot with its entries
	FindByID(ctx context.Context, id uuid.UUID) (*CapacitySlot, error)

	// FindByResourceAndDateRange finds slots for a resource in [from, to], ordered by date and window
	FindByResourceAndDateRange(ctx context.Context, tenantID, resourceID uuid.UUID, from, to time.Time) ([]CapacitySlot, error)

	// FindOverlapping finds the slots on one date whose windows intersect [windowStart, windowEnd)
	FindOverlapping(ctx context.Context, tenantID, resourceID uuid.UUID, date time.Time, windowStart, windowEnd string) ([]CapacitySlot, error)

	// FindBySlotEntry finds the slot owning a booking entry, with its entries
	FindBySlotEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*CapacitySlot, error)

	// CreateIfAbsent inserts a slot unless its (resource, date, window) row
	// already exists. Returns true when the row was inserted.
	CreateIfAbsent(ctx context.Context, slot *CapacitySlot) (bool, error)

	// SaveWithLock saves a slot and its new entries with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, slot *CapacitySlot) error
}
