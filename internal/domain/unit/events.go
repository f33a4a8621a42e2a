package unit

import (
	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeUnitStatus = "UnitStatus"

// Event type constants
const (
	EventTypeUnitStatusChanged = "UnitStatusChanged"
)

// UnitStatusChangedEvent is raised on every legal status transition
type UnitStatusChangedEvent struct {
	shared.BaseDomainEvent
	UnitID      uuid.UUID `json:"unit_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	OccupantRef string    `json:"occupant_ref,omitempty"`
	Override    bool      `json:"override,omitempty"`
}

// NewUnitStatusChangedEvent creates a new UnitStatusChangedEvent
func NewUnitStatusChangedEvent(u *UnitStatus, from Status, override bool) *UnitStatusChangedEvent {
	return &UnitStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitStatusChanged, AggregateTypeUnitStatus, u.ID, u.TenantID),
		UnitID:          u.UnitID,
		PropertyID:      u.PropertyID,
		FromStatus:      from,
		ToStatus:        u.Status,
		OccupantRef:     u.OccupantRef,
		Override:        override,
	}
}

// EventType returns the event type name
func (e *UnitStatusChangedEvent) EventType() string { return EventTypeUnitStatusChanged }
