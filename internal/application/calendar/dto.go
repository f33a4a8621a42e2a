package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/calendar"
)

// WindowRequest represents one template window in API requests
type WindowRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// GenerateSlotsRequest represents a request to materialize calendar slots
type GenerateSlotsRequest struct {
	PropertyID  uuid.UUID       `json:"property_id" binding:"required"`
	ResourceID  uuid.UUID       `json:"resource_id" binding:"required"`
	From        *time.Time      `json:"from"` // Defaults to today
	HorizonDays int             `json:"horizon_days"`
	Windows     []WindowRequest `json:"windows" binding:"required,min=1"`
	MaxCapacity int             `json:"max_capacity" binding:"required,min=1"`
}

// GenerateSlotsResult reports how many slot rows the run materialized
type GenerateSlotsResult struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
}

// BookSlotRequest represents a request to book capacity. The booking
// covers every slot overlapping the window on each date in
// [StartDate, EndDate].
type BookSlotRequest struct {
	ResourceID  uuid.UUID  `json:"resource_id" binding:"required"`
	StartDate   time.Time  `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate     *time.Time `json:"end_date" time_format:"2006-01-02"` // Defaults to StartDate
	WindowStart string     `json:"window_start" binding:"required"`
	WindowEnd   string     `json:"window_end" binding:"required"`
	PartySize   int        `json:"party_size" binding:"required,min=1"`
	BookingRef  string     `json:"booking_ref" binding:"required"`
	UnitID      *uuid.UUID `json:"unit_id"` // Optional physical unit assignment
}

// BookingEntryResponse represents a booking entry in API responses
type BookingEntryResponse struct {
	ID          uuid.UUID  `json:"id"`
	SlotID      uuid.UUID  `json:"slot_id"`
	BookingRef  string     `json:"booking_ref"`
	PartySize   int        `json:"party_size"`
	Date        time.Time  `json:"date"`
	WindowStart string     `json:"window_start"`
	WindowEnd   string     `json:"window_end"`
	BookedAt    time.Time  `json:"booked_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

// BookSlotResult carries the created entries, one per booked slot
type BookSlotResult struct {
	BookingRef string                 `json:"booking_ref"`
	Entries    []BookingEntryResponse `json:"entries"`
}

// ReleaseSlotResult reports whether the call released the entry or the
// entry was already released.
type ReleaseSlotResult struct {
	EntryID  uuid.UUID `json:"entry_id"`
	Released bool      `json:"released"`
}

// SlotResponse represents a capacity slot in API responses
type SlotResponse struct {
	ID                uuid.UUID `json:"id"`
	ResourceID        uuid.UUID `json:"resource_id"`
	PropertyID        uuid.UUID `json:"property_id"`
	Date              time.Time `json:"date"`
	WindowStart       string    `json:"window_start"`
	WindowEnd         string    `json:"window_end"`
	MaxCapacity       int       `json:"max_capacity"`
	CurrentBookings   int       `json:"current_bookings"`
	RemainingCapacity int       `json:"remaining_capacity"`
	IsAvailable       bool      `json:"is_available"`
	Version           int       `json:"version"`
}

// ToSlotResponse converts a domain slot to a response
func ToSlotResponse(s *calendar.CapacitySlot) SlotResponse {
	return SlotResponse{
		ID:                s.ID,
		ResourceID:        s.ResourceID,
		PropertyID:        s.PropertyID,
		Date:              s.Date,
		WindowStart:       s.WindowStart,
		WindowEnd:         s.WindowEnd,
		MaxCapacity:       s.MaxCapacity,
		CurrentBookings:   s.CurrentBookings,
		RemainingCapacity: s.RemainingCapacity(),
		IsAvailable:       s.IsAvailable(),
		Version:           s.GetVersion(),
	}
}

// ToSlotResponses converts a slice of slots
func ToSlotResponses(slots []calendar.CapacitySlot) []SlotResponse {
	responses := make([]SlotResponse, len(slots))
	for i := range slots {
		responses[i] = ToSlotResponse(&slots[i])
	}
	return responses
}

func toBookingEntryResponse(s *calendar.CapacitySlot, e *calendar.BookingSlotEntry) BookingEntryResponse {
	return BookingEntryResponse{
		ID:          e.ID,
		SlotID:      s.ID,
		BookingRef:  e.BookingRef,
		PartySize:   e.PartySize,
		Date:        s.Date,
		WindowStart: s.WindowStart,
		WindowEnd:   s.WindowEnd,
		BookedAt:    e.BookedAt,
		ReleasedAt:  e.ReleasedAt,
	}
}
