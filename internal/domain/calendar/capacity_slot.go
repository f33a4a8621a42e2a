package calendar

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a zero-padded 24h "HH:MM" time.
// Zero-padding keeps lexicographic comparison equal to time comparison.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// WindowsOverlap reports whether two half-open [start, end) windows
// on the same date intersect.
func WindowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// CapacitySlot is one bookable time window of a resource on one date
// (a seating of a dining room, a tour departure, a day of a room type).
// It is the aggregate root of the capacity calendar; BookingSlotEntry
// children are mutated only through Book and Release so that
// CurrentBookings always equals the sum of active entry party sizes.
type CapacitySlot struct {
	shared.TenantAggregateRoot
	PropertyID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ResourceID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_slot_resource_window,priority:2"`
	Date            time.Time          `gorm:"type:date;not null;uniqueIndex:idx_slot_resource_window,priority:3"`
	WindowStart     string             `gorm:"type:varchar(5);not null;uniqueIndex:idx_slot_resource_window,priority:4"`
	WindowEnd       string             `gorm:"type:varchar(5);not null"`
	MaxCapacity     int                `gorm:"not null"`
	CurrentBookings int                `gorm:"not null;default:0"`
	Entries         []BookingSlotEntry `gorm:"foreignKey:SlotID"`
}

// TableName returns the table name for GORM
func (CapacitySlot) TableName() string {
	return "capacity_slots"
}

// NewCapacitySlot creates a slot for a resource, date and time window
func NewCapacitySlot(tenantID, propertyID, resourceID uuid.UUID, date time.Time, windowStart, windowEnd string, maxCapacity int) (*CapacitySlot, error) {
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	if !ValidClock(windowStart) || !ValidClock(windowEnd) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Window times must be in HH:MM format")
	}
	if windowStart >= windowEnd {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Window start must be before window end")
	}
	if maxCapacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity must be positive")
	}

	return &CapacitySlot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		ResourceID:          resourceID,
		Date:                date.Truncate(24 * time.Hour),
		WindowStart:         windowStart,
		WindowEnd:           windowEnd,
		MaxCapacity:         maxCapacity,
	}, nil
}

// RemainingCapacity returns the bookable headroom. Derived, never stored.
func (s *CapacitySlot) RemainingCapacity() int {
	return s.MaxCapacity - s.CurrentBookings
}

// IsAvailable reports whether at least one more booking fits
func (s *CapacitySlot) IsAvailable() bool {
	return s.CurrentBookings < s.MaxCapacity
}

// IsExhausted reports whether the slot is fully booked
func (s *CapacitySlot) IsExhausted() bool {
	return s.CurrentBookings >= s.MaxCapacity
}

// CanAccommodate reports whether a party of the given size fits
func (s *CapacitySlot) CanAccommodate(partySize int) bool {
	return partySize > 0 && s.CurrentBookings+partySize <= s.MaxCapacity
}

// Overlaps reports whether the slot's window intersects [start, end)
func (s *CapacitySlot) Overlaps(windowStart, windowEnd string) bool {
	return WindowsOverlap(s.WindowStart, s.WindowEnd, windowStart, windowEnd)
}

// Book commits a party against the slot's capacity and appends an
// active entry. The capacity check and the increment must be persisted
// under an optimistic-lock save by the caller.
func (s *CapacitySlot) Book(partySize int, bookingRef string) (*BookingSlotEntry, error) {
	if partySize <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if bookingRef == "" {
		return nil, shared.NewDomainError("INVALID_BOOKING_REF", "Booking reference is required")
	}
	if !s.CanAccommodate(partySize) {
		return nil, shared.ErrCapacityExceeded
	}

	wasExhausted := s.IsExhausted()

	entry := newBookingSlotEntry(s, partySize, bookingRef)
	s.Entries = append(s.Entries, *entry)
	s.CurrentBookings += partySize
	s.touch()

	s.AddDomainEvent(NewSlotBookedEvent(s, entry))
	if !wasExhausted && s.IsExhausted() {
		s.AddDomainEvent(NewCapacityExhaustedEvent(s))
	}
	return entry, nil
}

// Release frees the capacity held by an entry. Releasing an entry that
// is already released is a no-op, not an error; the returned bool
// reports whether this call performed the release.
func (s *CapacitySlot) Release(entryID uuid.UUID) (bool, error) {
	idx := -1
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, shared.NewDomainError("ENTRY_NOT_FOUND", fmt.Sprintf("Booking entry %s does not belong to this slot", entryID))
	}
	if s.Entries[idx].IsReleased() {
		return false, nil
	}

	wasExhausted := s.IsExhausted()

	s.Entries[idx].markReleased()
	s.CurrentBookings -= s.Entries[idx].PartySize
	s.touch()

	s.AddDomainEvent(NewSlotReleasedEvent(s, &s.Entries[idx]))
	if wasExhausted && !s.IsExhausted() {
		s.AddDomainEvent(NewCapacityFreedEvent(s))
	}
	return true, nil
}

// FindEntry returns the entry with the given ID, or nil
func (s *CapacitySlot) FindEntry(entryID uuid.UUID) *BookingSlotEntry {
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			return &s.Entries[i]
		}
	}
	return nil
}

// ActiveEntries returns the entries that still hold capacity
func (s *CapacitySlot) ActiveEntries() []BookingSlotEntry {
	var active []BookingSlotEntry
	for _, e := range s.Entries {
		if !e.IsReleased() {
			active = append(active, e)
		}
	}
	return active
}

func (s *CapacitySlot) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// BookingSlotEntry records one party booked into a slot. Append-only:
// a committed entry is never deleted, release marks it with a timestamp
// so the slot history stays auditable.
type BookingSlotEntry struct {
	shared.BaseEntity
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SlotID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_entry_slot"`
	BookingRef string     `gorm:"type:varchar(100);not null;index:idx_entry_booking_ref"`
	PartySize  int        `gorm:"not null"`
	BookedAt   time.Time  `gorm:"type:timestamptz;not null"`
	ReleasedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (BookingSlotEntry) TableName() string {
	return "booking_slot_entries"
}

func newBookingSlotEntry(s *CapacitySlot, partySize int, bookingRef string) *BookingSlotEntry {
	return &BookingSlotEntry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   s.TenantID,
		SlotID:     s.ID,
		BookingRef: bookingRef,
		PartySize:  partySize,
		BookedAt:   time.Now(),
	}
}

// IsReleased reports whether the entry no longer holds capacity
func (e *BookingSlotEntry) IsReleased() bool {
	return e.ReleasedAt != nil
}

func (e *BookingSlotEntry) markReleased() {
	now := time.Now()
	e.ReleasedAt = &now
	e.UpdatedAt = now
}
