package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCapacitySlot = "CapacitySlot"

// Event type constants
const (
	EventTypeSlotBooked        = "SlotBooked"
	EventTypeSlotReleased      = "SlotReleased"
	EventTypeCapacityExhausted = "CapacityExhausted"
	EventTypeCapacityFreed     = "CapacityFreed"
)

// SlotBookedEvent is raised when a party is booked into a slot
type SlotBookedEvent struct {
	shared.BaseDomainEvent
	SlotID          uuid.UUID `json:"slot_id"`
	ResourceID      uuid.UUID `json:"resource_id"`
	EntryID         uuid.UUID `json:"entry_id"`
	BookingRef      string    `json:"booking_ref"`
	PartySize       int       `json:"party_size"`
	CurrentBookings int       `json:"current_bookings"`
	MaxCapacity     int       `json:"max_capacity"`
}

// NewSlotBookedEvent creates a new SlotBookedEvent
func NewSlotBookedEvent(s *CapacitySlot, entry *BookingSlotEntry) *SlotBookedEvent {
	return &SlotBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSlotBooked, AggregateTypeCapacitySlot, s.ID, s.TenantID),
		SlotID:          s.ID,
		ResourceID:      s.ResourceID,
		EntryID:         entry.ID,
		BookingRef:      entry.BookingRef,
		PartySize:       entry.PartySize,
		CurrentBookings: s.CurrentBookings,
		MaxCapacity:     s.MaxCapacity,
	}
}

// EventType returns the event type name
func (e *SlotBookedEvent) EventType() string { return EventTypeSlotBooked }

// SlotReleasedEvent is raised when a booking entry frees its capacity
type SlotReleasedEvent struct {
	shared.BaseDomainEvent
	SlotID          uuid.UUID `json:"slot_id"`
	ResourceID      uuid.UUID `json:"resource_id"`
	EntryID         uuid.UUID `json:"entry_id"`
	BookingRef      string    `json:"booking_ref"`
	PartySize       int       `json:"party_size"`
	CurrentBookings int       `json:"current_bookings"`
}

// NewSlotReleasedEvent creates a new SlotReleasedEvent
func NewSlotReleasedEvent(s *CapacitySlot, entry *BookingSlotEntry) *SlotReleasedEvent {
	return &SlotReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSlotReleased, AggregateTypeCapacitySlot, s.ID, s.TenantID),
		SlotID:          s.ID,
		ResourceID:      s.ResourceID,
		EntryID:         entry.ID,
		BookingRef:      entry.BookingRef,
		PartySize:       entry.PartySize,
		CurrentBookings: s.CurrentBookings,
	}
}

// EventType returns the event type name
func (e *SlotReleasedEvent) EventType() string { return EventTypeSlotReleased }

// CapacitySnapshotEvent carries the slot state shared by the
// exhaustion transition events.
type CapacitySnapshotEvent struct {
	shared.BaseDomainEvent
	SlotID          uuid.UUID `json:"slot_id"`
	ResourceID      uuid.UUID `json:"resource_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	Date            time.Time `json:"date"`
	WindowStart     string    `json:"window_start"`
	WindowEnd       string    `json:"window_end"`
	CurrentBookings int       `json:"current_bookings"`
	MaxCapacity     int       `json:"max_capacity"`
}

func newCapacitySnapshotEvent(eventType string, s *CapacitySlot) CapacitySnapshotEvent {
	return CapacitySnapshotEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCapacitySlot, s.ID, s.TenantID),
		SlotID:          s.ID,
		ResourceID:      s.ResourceID,
		PropertyID:      s.PropertyID,
		Date:            s.Date,
		WindowStart:     s.WindowStart,
		WindowEnd:       s.WindowEnd,
		CurrentBookings: s.CurrentBookings,
		MaxCapacity:     s.MaxCapacity,
	}
}

// CapacityExhaustedEvent is raised when a slot becomes fully booked
type CapacityExhaustedEvent struct{ CapacitySnapshotEvent }

// NewCapacityExhaustedEvent creates a new CapacityExhaustedEvent
func NewCapacityExhaustedEvent(s *CapacitySlot) *CapacityExhaustedEvent {
	return &CapacityExhaustedEvent{newCapacitySnapshotEvent(EventTypeCapacityExhausted, s)}
}

// EventType returns the event type name
func (e *CapacityExhaustedEvent) EventType() string { return EventTypeCapacityExhausted }

// CapacityFreedEvent is raised when a fully booked slot regains headroom
type CapacityFreedEvent struct{ CapacitySnapshotEvent }

// NewCapacityFreedEvent creates a new CapacityFreedEvent
func NewCapacityFreedEvent(s *CapacitySlot) *CapacityFreedEvent {
	return &CapacityFreedEvent{newCapacitySnapshotEvent(EventTypeCapacityFreed, s)}
}

// EventType returns the event type name
func (e *CapacityFreedEvent) EventType() string { return EventTypeCapacityFreed }
