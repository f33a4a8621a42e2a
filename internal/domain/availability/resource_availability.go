package availability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stayops/backend/internal/domain/shared"
)

// ResourceAvailability tracks the committed/free quantity of one finite
// resource at one property (room nights of a room type, covers of a dining
// room, units of a consumable). It is the aggregate root of the reservation
// engine; the composite identifier is PropertyID + ResourceID.
//
// CurrentQuantity and ReservedQuantity are the only stored quantities.
// Available quantity and the low/out-of-stock flags are derived and must
// never be persisted independently of their inputs.
type ResourceAvailability struct {
	shared.TenantAggregateRoot
	PropertyID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_availability_property_resource,priority:2"`
	ResourceID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_availability_property_resource,priority:3"`
	CurrentQuantity  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"` // Owned stock or total sellable units
	ReservedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"` // Committed but not yet consumed
	MinimumThreshold decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	MaximumCapacity  *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ResourceAvailability) TableName() string {
	return "resource_availability"
}

// NewResourceAvailability creates an empty availability row for a
// property-resource combination.
func NewResourceAvailability(tenantID, propertyID, resourceID uuid.UUID) (*ResourceAvailability, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}

	return &ResourceAvailability{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		ResourceID:          resourceID,
		CurrentQuantity:     decimal.Zero,
		ReservedQuantity:    decimal.Zero,
		MinimumThreshold:    decimal.Zero,
	}, nil
}

// AvailableQuantity returns current minus reserved. Derived, never stored.
func (a *ResourceAvailability) AvailableQuantity() decimal.Decimal {
	return a.CurrentQuantity.Sub(a.ReservedQuantity)
}

// IsLowStock reports whether available quantity is at or below the
// minimum threshold.
func (a *ResourceAvailability) IsLowStock() bool {
	return a.AvailableQuantity().LessThanOrEqual(a.MinimumThreshold)
}

// IsOutOfStock reports whether no quantity is available.
func (a *ResourceAvailability) IsOutOfStock() bool {
	return a.AvailableQuantity().LessThanOrEqual(decimal.Zero)
}

// IsOverstock reports whether current quantity exceeds the optional
// maximum capacity.
func (a *ResourceAvailability) IsOverstock() bool {
	return a.MaximumCapacity != nil && a.CurrentQuantity.GreaterThan(*a.MaximumCapacity)
}

// CanFulfill returns true if the available quantity covers the request
func (a *ResourceAvailability) CanFulfill(quantity decimal.Decimal) bool {
	return a.AvailableQuantity().GreaterThanOrEqual(quantity)
}

// snapshot of the derived flags, used to detect threshold crossings
type flagState struct {
	lowStock   bool
	outOfStock bool
	overstock  bool
}

func (a *ResourceAvailability) flags() flagState {
	return flagState{
		lowStock:   a.IsLowStock(),
		outOfStock: a.IsOutOfStock(),
		overstock:  a.IsOverstock(),
	}
}

// StockIn records quantity entering the resource pool (purchase receipt,
// new sellable units brought online).
func (a *ResourceAvailability) StockIn(quantity decimal.Decimal, reason string, ref Reference, actorID *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	before := a.flags()
	balanceBefore := a.AvailableQuantity()

	a.CurrentQuantity = a.CurrentQuantity.Add(quantity)
	a.touch()

	mv := newMovement(a, MovementTypeIn, quantity, reason, ref, actorID, balanceBefore, a.AvailableQuantity())
	a.emitChangeEvents(mv, before)
	return mv, nil
}

// StockOut records quantity leaving the resource pool (consumption,
// breakage, units taken off market). The available quantity must cover
// the movement; reserved quantity is untouched. Consuming a reservation
// is a release followed by an out.
func (a *ResourceAvailability) StockOut(quantity decimal.Decimal, reason string, ref Reference, actorID *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if !a.CanFulfill(quantity) {
		return nil, shared.ErrInsufficientAvailability
	}

	before := a.flags()
	balanceBefore := a.AvailableQuantity()

	a.CurrentQuantity = a.CurrentQuantity.Sub(quantity)
	a.touch()

	mv := newMovement(a, MovementTypeOut, quantity, reason, ref, actorID, balanceBefore, a.AvailableQuantity())
	a.emitChangeEvents(mv, before)
	return mv, nil
}

// Reserve commits quantity against future use without consuming it.
// This is the concurrency-critical check: the caller must re-apply it
// under the optimistic-lock save so that two concurrent reservations can
// never both pass against the same snapshot.
func (a *ResourceAvailability) Reserve(quantity decimal.Decimal, reason string, ref Reference, actorID *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if !a.CanFulfill(quantity) {
		return nil, shared.ErrInsufficientAvailability
	}

	before := a.flags()
	balanceBefore := a.AvailableQuantity()

	a.ReservedQuantity = a.ReservedQuantity.Add(quantity)
	a.touch()

	mv := newMovement(a, MovementTypeReservation, quantity, reason, ref, actorID, balanceBefore, a.AvailableQuantity())
	a.emitChangeEvents(mv, before)
	return mv, nil
}

// Release reverses a prior reservation, returning quantity to the free pool.
func (a *ResourceAvailability) Release(quantity decimal.Decimal, reason string, ref Reference, actorID *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if a.ReservedQuantity.LessThan(quantity) {
		return nil, shared.NewDomainError("RELEASE_EXCEEDS_RESERVED", "Cannot release more than the reserved quantity")
	}

	before := a.flags()
	balanceBefore := a.AvailableQuantity()

	a.ReservedQuantity = a.ReservedQuantity.Sub(quantity)
	a.touch()

	mv := newMovement(a, MovementTypeRelease, quantity, reason, ref, actorID, balanceBefore, a.AvailableQuantity())
	a.emitChangeEvents(mv, before)
	return mv, nil
}

// Adjust corrects the owned quantity to match an observed actual count
// (stock taking, audit). The new quantity must still cover outstanding
// reservations so that available quantity never goes negative.
func (a *ResourceAvailability) Adjust(actualQuantity decimal.Decimal, reason string, ref Reference, actorID *uuid.UUID) (*Movement, error) {
	if actualQuantity.IsNegative() {
		return nil, shared.ErrInvalidQuantity
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if actualQuantity.LessThan(a.ReservedQuantity) {
		return nil, shared.ErrInsufficientAvailability
	}

	difference := actualQuantity.Sub(a.CurrentQuantity).Abs()
	if difference.IsZero() {
		return nil, shared.NewDomainError("NO_CHANGE", "Actual quantity matches current quantity")
	}

	before := a.flags()
	balanceBefore := a.AvailableQuantity()

	a.CurrentQuantity = actualQuantity
	a.touch()

	mv := newMovement(a, MovementTypeAdjustment, difference, reason, ref, actorID, balanceBefore, a.AvailableQuantity())
	a.emitChangeEvents(mv, before)
	return mv, nil
}

// SetThresholds updates the alerting thresholds. A nil max clears the
// maximum capacity. Threshold changes re-evaluate the derived flags so a
// raised minimum can trigger a low-stock transition without a movement.
func (a *ResourceAvailability) SetThresholds(minimum decimal.Decimal, maximum *decimal.Decimal) error {
	if minimum.IsNegative() {
		return shared.ErrInvalidQuantity
	}
	if maximum != nil && maximum.IsNegative() {
		return shared.ErrInvalidQuantity
	}

	before := a.flags()

	a.MinimumThreshold = minimum
	a.MaximumCapacity = maximum
	a.touch()

	a.emitFlagTransitions(nil, before, a.flags())
	return nil
}

func (a *ResourceAvailability) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func (a *ResourceAvailability) emitChangeEvents(mv *Movement, before flagState) {
	a.AddDomainEvent(NewAvailabilityChangedEvent(a, mv))
	a.emitFlagTransitions(mv, before, a.flags())
}

func (a *ResourceAvailability) emitFlagTransitions(mv *Movement, before, after flagState) {
	if !before.lowStock && after.lowStock {
		a.AddDomainEvent(NewLowStockEnteredEvent(a))
	}
	if before.lowStock && !after.lowStock {
		a.AddDomainEvent(NewLowStockClearedEvent(a))
	}
	if !before.outOfStock && after.outOfStock {
		a.AddDomainEvent(NewOutOfStockEnteredEvent(a))
	}
	if before.outOfStock && !after.outOfStock {
		a.AddDomainEvent(NewOutOfStockClearedEvent(a))
	}
	if !before.overstock && after.overstock {
		a.AddDomainEvent(NewOverstockEnteredEvent(a))
	}
	if before.overstock && !after.overstock {
		a.AddDomainEvent(NewOverstockClearedEvent(a))
	}
}
