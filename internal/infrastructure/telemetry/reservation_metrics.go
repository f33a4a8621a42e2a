package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/shared"
)

// ReservationMetrics counts the business activity of the reservation
// engine. It subscribes to domain events on the bus, so it observes
// exactly the mutations that committed and nothing the core had to
// wait for.
type ReservationMetrics struct {
	movementsTotal         *Counter
	slotBookingsTotal      *Counter
	slotReleasesTotal      *Counter
	capacityExhaustedTotal *Counter
	stockFlagTotal         *Counter
	bookingPartySize       *Histogram
}

// NewReservationMetrics creates the counters on the given meter
func NewReservationMetrics(meter metric.Meter) (*ReservationMetrics, error) {
	m := &ReservationMetrics{}
	var err error

	m.movementsTotal, err = NewCounter(meter,
		"stayops_movements_total",
		"Total ledger movements applied, by movement type",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	m.slotBookingsTotal, err = NewCounter(meter,
		"stayops_slot_bookings_total",
		"Total capacity slot bookings committed",
		"{bookings}",
	)
	if err != nil {
		return nil, err
	}

	m.slotReleasesTotal, err = NewCounter(meter,
		"stayops_slot_releases_total",
		"Total capacity slot bookings released",
		"{releases}",
	)
	if err != nil {
		return nil, err
	}

	m.capacityExhaustedTotal, err = NewCounter(meter,
		"stayops_capacity_exhausted_total",
		"Times a slot became fully booked",
		"{slots}",
	)
	if err != nil {
		return nil, err
	}

	m.stockFlagTotal, err = NewCounter(meter,
		"stayops_stock_flag_transitions_total",
		"Threshold flag transitions, by event type",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	m.bookingPartySize, err = NewHistogram(meter,
		"stayops_booking_party_size",
		"Distribution of booked party sizes",
		"{guests}",
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// EventTypes returns the event types this handler counts
func (m *ReservationMetrics) EventTypes() []string {
	return []string{
		availability.EventTypeAvailabilityChanged,
		availability.EventTypeLowStockEntered,
		availability.EventTypeOutOfStockEntered,
		availability.EventTypeOverstockEntered,
		calendar.EventTypeSlotBooked,
		calendar.EventTypeSlotReleased,
		calendar.EventTypeCapacityExhausted,
	}
}

// Handle records one committed domain event
func (m *ReservationMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *availability.AvailabilityChangedEvent:
		m.movementsTotal.Inc(ctx,
			AttrTenantID.String(e.TenantID().String()),
			AttrMovementType.String(e.MovementType.String()),
		)
	case *calendar.SlotBookedEvent:
		m.slotBookingsTotal.Inc(ctx,
			AttrTenantID.String(e.TenantID().String()),
			AttrResourceID.String(e.ResourceID.String()),
		)
		m.bookingPartySize.Record(ctx, float64(e.PartySize),
			AttrResourceID.String(e.ResourceID.String()),
		)
	case *calendar.SlotReleasedEvent:
		m.slotReleasesTotal.Inc(ctx,
			AttrTenantID.String(e.TenantID().String()),
		)
	case *calendar.CapacityExhaustedEvent:
		m.capacityExhaustedTotal.Inc(ctx,
			AttrTenantID.String(e.TenantID().String()),
			AttrResourceID.String(e.ResourceID.String()),
		)
	default:
		m.stockFlagTotal.Inc(ctx,
			AttrTenantID.String(event.TenantID().String()),
			AttrEventType.String(event.EventType()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*ReservationMetrics)(nil)
