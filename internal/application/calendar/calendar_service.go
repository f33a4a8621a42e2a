package calendar

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/domain/unit"
)

const (
	// DefaultHorizonDays is the rolling generation window when the
	// request does not specify one
	DefaultHorizonDays = 90
	// DefaultContentionRetries bounds the optimistic-lock retry loop
	DefaultContentionRetries = 3
	// retryBaseDelay is the base for the jittered backoff between attempts
	retryBaseDelay = 5 * time.Millisecond
)

// CalendarService handles slot generation, booking and release.
//
// Booking validates every slot the requested window overlaps, checks the
// assigned unit's status, and commits all slot updates in one transaction
// under optimistic locking; a conflict on any slot retries the whole
// booking against fresh state.
type CalendarService struct {
	slotRepo       calendar.CapacitySlotRepository
	unitRepo       unit.UnitStatusRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	maxRetries     int
	horizonDays    int
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(
	slotRepo calendar.CapacitySlotRepository,
	unitRepo unit.UnitStatusRepository,
	txScope TransactionScope,
) *CalendarService {
	return &CalendarService{
		slotRepo:    slotRepo,
		unitRepo:    unitRepo,
		txScope:     txScope,
		maxRetries:  DefaultContentionRetries,
		horizonDays: DefaultHorizonDays,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CalendarService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMaxRetries overrides the contention retry budget
func (s *CalendarService) SetMaxRetries(n int) {
	if n > 0 {
		s.maxRetries = n
	}
}

// SetDefaultHorizon overrides the default generation horizon
func (s *CalendarService) SetDefaultHorizon(days int) {
	if days > 0 {
		s.horizonDays = days
	}
}

// EnsureSlotsGenerated materializes slot rows for a rolling window.
// Re-running is idempotent: rows whose (resource, date, window) already
// exist are skipped, never duplicated, and existing bookings are kept.
func (s *CalendarService) EnsureSlotsGenerated(ctx context.Context, tenantID uuid.UUID, req GenerateSlotsRequest) (*GenerateSlotsResult, error) {
	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = s.horizonDays
	}
	from := time.Now()
	if req.From != nil {
		from = *req.From
	}

	template := calendar.SlotTemplate{MaxCapacity: req.MaxCapacity}
	for _, w := range req.Windows {
		template.Windows = append(template.Windows, calendar.Window{Start: w.Start, End: w.End})
	}

	slots, err := template.Materialize(tenantID, req.PropertyID, req.ResourceID, from, horizon)
	if err != nil {
		return nil, err
	}

	result := &GenerateSlotsResult{}
	for _, slot := range slots {
		created, err := s.slotRepo.CreateIfAbsent(ctx, slot)
		if err != nil {
			return nil, err
		}
		if created {
			result.Generated++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// BookSlot books a party into every slot the requested window overlaps
// on each date in the range. All slots must have capacity and the
// assigned unit must permit the booking; otherwise nothing is committed.
func (s *CalendarService) BookSlot(ctx context.Context, tenantID uuid.UUID, req BookSlotRequest) (*BookSlotResult, error) {
	if req.PartySize <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !calendar.ValidClock(req.WindowStart) || !calendar.ValidClock(req.WindowEnd) || req.WindowStart >= req.WindowEnd {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Window times must be in HH:MM format with start before end")
	}
	endDate := req.StartDate
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if endDate.Before(req.StartDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must not precede start date")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			s.backoff(ctx, attempt)
		}

		result, err := s.tryBookSlots(ctx, tenantID, req, endDate)
		if err != nil {
			if shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED") {
				continue
			}
			return nil, err
		}
		return result, nil
	}

	return nil, shared.ErrResourceContention
}

// tryBookSlots performs one booking attempt inside a transaction
func (s *CalendarService) tryBookSlots(ctx context.Context, tenantID uuid.UUID, req BookSlotRequest, endDate time.Time) (*BookSlotResult, error) {
	var booked []*calendar.CapacitySlot
	var entries []BookingEntryResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.UnitID != nil {
			unitStatus, err := repos.UnitRepo().FindByUnit(ctx, tenantID, *req.UnitID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrUnknownResource
				}
				return err
			}
			if !unitStatus.AllowsAssignment(req.BookingRef) {
				return shared.ErrUnitNotAssignable
			}
		}

		for date := req.StartDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			slots, err := repos.SlotRepo().FindOverlapping(ctx, tenantID, req.ResourceID, date, req.WindowStart, req.WindowEnd)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				return shared.ErrUnknownResource
			}

			for i := range slots {
				slot := &slots[i]
				entry, err := slot.Book(req.PartySize, req.BookingRef)
				if err != nil {
					return err
				}
				if err := repos.SlotRepo().SaveWithLock(ctx, slot); err != nil {
					return err
				}
				booked = append(booked, slot)
				entries = append(entries, toBookingEntryResponse(slot, entry))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, slot := range booked {
		s.publishDomainEvents(ctx, slot)
	}

	return &BookSlotResult{BookingRef: req.BookingRef, Entries: entries}, nil
}

// ReleaseSlot frees the capacity held by a booking entry. Releasing an
// already-released entry is a no-op reported in the result, not an error.
func (s *CalendarService) ReleaseSlot(ctx context.Context, tenantID, entryID uuid.UUID) (*ReleaseSlotResult, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			s.backoff(ctx, attempt)
		}

		slot, err := s.slotRepo.FindBySlotEntry(ctx, tenantID, entryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrUnknownResource
			}
			return nil, err
		}

		released, err := slot.Release(entryID)
		if err != nil {
			return nil, err
		}
		if !released {
			return &ReleaseSlotResult{EntryID: entryID, Released: false}, nil
		}

		if err := s.slotRepo.SaveWithLock(ctx, slot); err != nil {
			if shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED") {
				continue
			}
			return nil, err
		}

		s.publishDomainEvents(ctx, slot)
		return &ReleaseSlotResult{EntryID: entryID, Released: true}, nil
	}

	return nil, shared.ErrResourceContention
}

// GetSlotAvailability returns the slots for a resource over a date range
func (s *CalendarService) GetSlotAvailability(ctx context.Context, tenantID, resourceID uuid.UUID, from, to time.Time) ([]SlotResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must not precede start date")
	}
	slots, err := s.slotRepo.FindByResourceAndDateRange(ctx, tenantID, resourceID, from, to)
	if err != nil {
		return nil, err
	}
	return ToSlotResponses(slots), nil
}

func (s *CalendarService) publishDomainEvents(ctx context.Context, slot *calendar.CapacitySlot) {
	if s.eventPublisher == nil {
		return
	}
	events := slot.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	slot.ClearDomainEvents()
}

func (s *CalendarService) backoff(ctx context.Context, attempt int) {
	delay := time.Duration(attempt)*retryBaseDelay + time.Duration(rand.Intn(5))*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
