package availability

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stayops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeResourceAvailability = "ResourceAvailability"

// Event type constants
const (
	EventTypeAvailabilityChanged = "AvailabilityChanged"
	EventTypeLowStockEntered     = "LowStockEntered"
	EventTypeLowStockCleared     = "LowStockCleared"
	EventTypeOutOfStockEntered   = "OutOfStockEntered"
	EventTypeOutOfStockCleared   = "OutOfStockCleared"
	EventTypeOverstockEntered    = "OverstockEntered"
	EventTypeOverstockCleared    = "OverstockCleared"
)

// AvailabilityChangedEvent is raised on every applied movement with the
// resulting snapshot quantities.
type AvailabilityChangedEvent struct {
	shared.BaseDomainEvent
	AvailabilityID    uuid.UUID       `json:"availability_id"`
	PropertyID        uuid.UUID       `json:"property_id"`
	ResourceID        uuid.UUID       `json:"resource_id"`
	MovementType      MovementType    `json:"movement_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// NewAvailabilityChangedEvent creates a new AvailabilityChangedEvent
func NewAvailabilityChangedEvent(a *ResourceAvailability, mv *Movement) *AvailabilityChangedEvent {
	return &AvailabilityChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeAvailabilityChanged, AggregateTypeResourceAvailability, a.ID, a.TenantID),
		AvailabilityID:    a.ID,
		PropertyID:        a.PropertyID,
		ResourceID:        a.ResourceID,
		MovementType:      mv.Type,
		Quantity:          mv.Quantity,
		CurrentQuantity:   a.CurrentQuantity,
		ReservedQuantity:  a.ReservedQuantity,
		AvailableQuantity: a.AvailableQuantity(),
	}
}

// EventType returns the event type name
func (e *AvailabilityChangedEvent) EventType() string {
	return EventTypeAvailabilityChanged
}

// ThresholdEvent carries the snapshot shared by every flag-transition event.
type ThresholdEvent struct {
	shared.BaseDomainEvent
	AvailabilityID    uuid.UUID       `json:"availability_id"`
	PropertyID        uuid.UUID       `json:"property_id"`
	ResourceID        uuid.UUID       `json:"resource_id"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	MinimumThreshold  decimal.Decimal `json:"minimum_threshold"`
}

func newThresholdEvent(eventType string, a *ResourceAvailability) ThresholdEvent {
	return ThresholdEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeResourceAvailability, a.ID, a.TenantID),
		AvailabilityID:    a.ID,
		PropertyID:        a.PropertyID,
		ResourceID:        a.ResourceID,
		CurrentQuantity:   a.CurrentQuantity,
		ReservedQuantity:  a.ReservedQuantity,
		AvailableQuantity: a.AvailableQuantity(),
		MinimumThreshold:  a.MinimumThreshold,
	}
}

// LowStockEnteredEvent is raised when available quantity drops to or below
// the minimum threshold.
type LowStockEnteredEvent struct{ ThresholdEvent }

// NewLowStockEnteredEvent creates a new LowStockEnteredEvent
func NewLowStockEnteredEvent(a *ResourceAvailability) *LowStockEnteredEvent {
	return &LowStockEnteredEvent{newThresholdEvent(EventTypeLowStockEntered, a)}
}

// EventType returns the event type name
func (e *LowStockEnteredEvent) EventType() string { return EventTypeLowStockEntered }

// LowStockClearedEvent is raised when available quantity rises back above
// the minimum threshold.
type LowStockClearedEvent struct{ ThresholdEvent }

// NewLowStockClearedEvent creates a new LowStockClearedEvent
func NewLowStockClearedEvent(a *ResourceAvailability) *LowStockClearedEvent {
	return &LowStockClearedEvent{newThresholdEvent(EventTypeLowStockCleared, a)}
}

// EventType returns the event type name
func (e *LowStockClearedEvent) EventType() string { return EventTypeLowStockCleared }

// OutOfStockEnteredEvent is raised when available quantity reaches zero.
type OutOfStockEnteredEvent struct{ ThresholdEvent }

// NewOutOfStockEnteredEvent creates a new OutOfStockEnteredEvent
func NewOutOfStockEnteredEvent(a *ResourceAvailability) *OutOfStockEnteredEvent {
	return &OutOfStockEnteredEvent{newThresholdEvent(EventTypeOutOfStockEntered, a)}
}

// EventType returns the event type name
func (e *OutOfStockEnteredEvent) EventType() string { return EventTypeOutOfStockEntered }

// OutOfStockClearedEvent is raised when quantity becomes available again.
type OutOfStockClearedEvent struct{ ThresholdEvent }

// NewOutOfStockClearedEvent creates a new OutOfStockClearedEvent
func NewOutOfStockClearedEvent(a *ResourceAvailability) *OutOfStockClearedEvent {
	return &OutOfStockClearedEvent{newThresholdEvent(EventTypeOutOfStockCleared, a)}
}

// EventType returns the event type name
func (e *OutOfStockClearedEvent) EventType() string { return EventTypeOutOfStockCleared }

// OverstockEnteredEvent is raised when current quantity exceeds the maximum capacity.
type OverstockEnteredEvent struct{ ThresholdEvent }

// NewOverstockEnteredEvent creates a new OverstockEnteredEvent
func NewOverstockEnteredEvent(a *ResourceAvailability) *OverstockEnteredEvent {
	return &OverstockEnteredEvent{newThresholdEvent(EventTypeOverstockEntered, a)}
}

// EventType returns the event type name
func (e *OverstockEnteredEvent) EventType() string { return EventTypeOverstockEntered }

// OverstockClearedEvent is raised when current quantity drops back within capacity.
type OverstockClearedEvent struct{ ThresholdEvent }

// NewOverstockClearedEvent creates a new OverstockClearedEvent
func NewOverstockClearedEvent(a *ResourceAvailability) *OverstockClearedEvent {
	return &OverstockClearedEvent{newThresholdEvent(EventTypeOverstockCleared, a)}
}

// EventType returns the event type name
func (e *OverstockClearedEvent) EventType() string { return EventTypeOverstockCleared }
