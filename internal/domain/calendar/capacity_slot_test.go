package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/backend/internal/domain/shared"
)

func createTestSlot(t *testing.T, maxCapacity int) *CapacitySlot {
	t.Helper()
	slot, err := NewCapacitySlot(
		uuid.New(), uuid.New(), uuid.New(),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		"18:00", "20:00", maxCapacity,
	)
	require.NoError(t, err)
	return slot
}

func TestNewCapacitySlot(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()
	resourceID := uuid.New()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates slot successfully", func(t *testing.T) {
		slot, err := NewCapacitySlot(tenantID, propertyID, resourceID, date, "18:00", "20:00", 12)

		require.NoError(t, err)
		assert.Equal(t, resourceID, slot.ResourceID)
		assert.Equal(t, "18:00", slot.WindowStart)
		assert.Equal(t, 12, slot.MaxCapacity)
		assert.Zero(t, slot.CurrentBookings)
		assert.True(t, slot.IsAvailable())
	})

	t.Run("fails with nil resource ID", func(t *testing.T) {
		_, err := NewCapacitySlot(tenantID, propertyID, uuid.Nil, date, "18:00", "20:00", 12)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_RESOURCE"))
	})

	t.Run("fails with malformed window", func(t *testing.T) {
		_, err := NewCapacitySlot(tenantID, propertyID, resourceID, date, "6pm", "20:00", 12)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_WINDOW"))
	})

	t.Run("fails with inverted window", func(t *testing.T) {
		_, err := NewCapacitySlot(tenantID, propertyID, resourceID, date, "20:00", "18:00", 12)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_WINDOW"))
	})

	t.Run("fails with non-positive capacity", func(t *testing.T) {
		_, err := NewCapacitySlot(tenantID, propertyID, resourceID, date, "18:00", "20:00", 0)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_CAPACITY"))
	})
}

func TestWindowsOverlap(t *testing.T) {
	assert.True(t, WindowsOverlap("18:00", "20:00", "19:00", "21:00"))
	assert.True(t, WindowsOverlap("18:00", "20:00", "17:00", "18:30"))
	assert.True(t, WindowsOverlap("18:00", "20:00", "18:00", "20:00"))

	// adjacent windows do not overlap
	assert.False(t, WindowsOverlap("18:00", "20:00", "20:00", "22:00"))
	assert.False(t, WindowsOverlap("18:00", "20:00", "16:00", "18:00"))
}

func TestCapacitySlot_Book(t *testing.T) {
	t.Run("books party and creates entry", func(t *testing.T) {
		slot := createTestSlot(t, 10)

		entry, err := slot.Book(4, "booking-1")

		require.NoError(t, err)
		assert.Equal(t, 4, slot.CurrentBookings)
		assert.Equal(t, 6, slot.RemainingCapacity())
		assert.Equal(t, "booking-1", entry.BookingRef)
		assert.Equal(t, 4, entry.PartySize)
		assert.False(t, entry.IsReleased())
		assert.Len(t, slot.Entries, 1)
		assert.Equal(t, 2, slot.GetVersion())
	})

	t.Run("fails when capacity exceeded", func(t *testing.T) {
		slot := createTestSlot(t, 10)
		_, err := slot.Book(8, "booking-1")
		require.NoError(t, err)

		entry, err := slot.Book(3, "booking-2")

		require.Error(t, err)
		assert.Nil(t, entry)
		assert.True(t, shared.IsCode(err, "CAPACITY_EXCEEDED"))
		assert.Equal(t, 8, slot.CurrentBookings)
		assert.Len(t, slot.Entries, 1)
	})

	t.Run("booking to exactly full is allowed", func(t *testing.T) {
		slot := createTestSlot(t, 10)

		_, err := slot.Book(10, "booking-1")

		require.NoError(t, err)
		assert.True(t, slot.IsExhausted())
		assert.False(t, slot.IsAvailable())
	})

	t.Run("fails with non-positive party size", func(t *testing.T) {
		slot := createTestSlot(t, 10)

		_, err := slot.Book(0, "booking-1")

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_QUANTITY"))
	})

	t.Run("fails without booking ref", func(t *testing.T) {
		slot := createTestSlot(t, 10)

		_, err := slot.Book(2, "")

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_BOOKING_REF"))
	})

	t.Run("emits SlotBooked and CapacityExhausted events", func(t *testing.T) {
		slot := createTestSlot(t, 4)

		_, err := slot.Book(4, "booking-1")

		require.NoError(t, err)
		events := slot.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeSlotBooked, events[0].EventType())
		assert.Equal(t, EventTypeCapacityExhausted, events[1].EventType())
	})
}

func TestCapacitySlot_Release(t *testing.T) {
	t.Run("frees capacity and marks entry", func(t *testing.T) {
		slot := createTestSlot(t, 10)
		entry, err := slot.Book(4, "booking-1")
		require.NoError(t, err)

		released, err := slot.Release(entry.ID)

		require.NoError(t, err)
		assert.True(t, released)
		assert.Zero(t, slot.CurrentBookings)
		assert.True(t, slot.FindEntry(entry.ID).IsReleased())
		assert.Empty(t, slot.ActiveEntries())
	})

	t.Run("double release is a no-op", func(t *testing.T) {
		slot := createTestSlot(t, 10)
		entry, err := slot.Book(4, "booking-1")
		require.NoError(t, err)

		released, err := slot.Release(entry.ID)
		require.NoError(t, err)
		require.True(t, released)
		versionAfterFirst := slot.GetVersion()

		released, err = slot.Release(entry.ID)

		require.NoError(t, err)
		assert.False(t, released)
		assert.Zero(t, slot.CurrentBookings)
		assert.Equal(t, versionAfterFirst, slot.GetVersion())
	})

	t.Run("fails for foreign entry", func(t *testing.T) {
		slot := createTestSlot(t, 10)

		_, err := slot.Release(uuid.New())

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "ENTRY_NOT_FOUND"))
	})

	t.Run("emits CapacityFreed when leaving full state", func(t *testing.T) {
		slot := createTestSlot(t, 4)
		entry, err := slot.Book(4, "booking-1")
		require.NoError(t, err)
		slot.ClearDomainEvents()

		_, err = slot.Release(entry.ID)

		require.NoError(t, err)
		events := slot.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeSlotReleased, events[0].EventType())
		assert.Equal(t, EventTypeCapacityFreed, events[1].EventType())
	})
}

func TestSlotTemplate_Validate(t *testing.T) {
	t.Run("accepts non-overlapping windows", func(t *testing.T) {
		tmpl := SlotTemplate{
			Windows:     []Window{{Start: "12:00", End: "14:00"}, {Start: "18:00", End: "21:00"}},
			MaxCapacity: 20,
		}

		assert.NoError(t, tmpl.Validate())
	})

	t.Run("rejects empty template", func(t *testing.T) {
		err := SlotTemplate{MaxCapacity: 20}.Validate()

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TEMPLATE"))
	})

	t.Run("rejects overlapping windows", func(t *testing.T) {
		tmpl := SlotTemplate{
			Windows:     []Window{{Start: "12:00", End: "15:00"}, {Start: "14:00", End: "18:00"}},
			MaxCapacity: 20,
		}

		err := tmpl.Validate()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TEMPLATE"))
	})

	t.Run("rejects bad clock format", func(t *testing.T) {
		tmpl := SlotTemplate{
			Windows:     []Window{{Start: "25:00", End: "26:00"}},
			MaxCapacity: 20,
		}

		err := tmpl.Validate()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_WINDOW"))
	})
}

func TestSlotTemplate_Materialize(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()
	resourceID := uuid.New()
	from := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

	t.Run("generates one slot per window per day", func(t *testing.T) {
		tmpl := SlotTemplate{
			Windows:     []Window{{Start: "12:00", End: "14:00"}, {Start: "18:00", End: "21:00"}},
			MaxCapacity: 20,
		}

		slots, err := tmpl.Materialize(tenantID, propertyID, resourceID, from, 7)

		require.NoError(t, err)
		require.Len(t, slots, 14)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), slots[0].Date)
		assert.Equal(t, "12:00", slots[0].WindowStart)
		assert.Equal(t, "18:00", slots[1].WindowStart)
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), slots[13].Date)
	})

	t.Run("generated keys are unique", func(t *testing.T) {
		tmpl := FullDayTemplate(5)

		slots, err := tmpl.Materialize(tenantID, propertyID, resourceID, from, 30)

		require.NoError(t, err)
		seen := make(map[string]bool)
		for _, s := range slots {
			key := s.Date.Format("2006-01-02") + s.WindowStart
			assert.False(t, seen[key], "duplicate slot key %s", key)
			seen[key] = true
		}
	})

	t.Run("fails with non-positive horizon", func(t *testing.T) {
		_, err := FullDayTemplate(5).Materialize(tenantID, propertyID, resourceID, from, 0)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_HORIZON"))
	})
}
