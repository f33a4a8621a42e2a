package unit

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// Status represents the operational state of a physical unit
type Status string

const (
	// StatusAvailable means the unit can be assigned to a booking
	StatusAvailable Status = "available"
	// StatusOccupied means a guest currently holds the unit
	StatusOccupied Status = "occupied"
	// StatusReserved means the unit is held for a specific booking
	StatusReserved Status = "reserved"
	// StatusMaintenance means the unit is administratively blocked for repair
	StatusMaintenance Status = "maintenance"
	// StatusCleaning means the unit is being turned over
	StatusCleaning Status = "cleaning"
	// StatusOutOfOrder means the unit is administratively unusable
	StatusOutOfOrder Status = "out_of_order"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known state
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved,
		StatusMaintenance, StatusCleaning, StatusOutOfOrder:
		return true
	}
	return false
}

// IsAdministrative reports whether the state blocks the unit for
// operational reasons rather than guest use.
func (s Status) IsAdministrative() bool {
	return s == StatusMaintenance || s == StatusOutOfOrder
}

// transitions lists the legal non-administrative target states per
// current state. Administrative targets are handled separately since
// they are reachable from any state, with an override required
// mid-occupancy.
var transitions = map[Status][]Status{
	StatusAvailable:   {StatusOccupied, StatusReserved, StatusCleaning},
	StatusOccupied:    {StatusCleaning},
	StatusReserved:    {StatusOccupied, StatusAvailable},
	StatusCleaning:    {StatusAvailable},
	StatusMaintenance: {StatusAvailable},
	StatusOutOfOrder:  {StatusAvailable},
}

// UnitStatus tracks the operational state of one physical unit (room,
// table, treatment cabin). It is orthogonal to the capacity calendar:
// a unit can be bookable in the calendar yet administratively blocked,
// so both gates must pass before a booking is confirmed.
type UnitStatus struct {
	shared.TenantAggregateRoot
	PropertyID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	UnitID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_unit_status_unit,priority:2"`
	Status           Status     `gorm:"type:varchar(20);not null;index"`
	OccupiedAt       *time.Time `gorm:"type:timestamptz"`
	EstimatedVacancy *time.Time `gorm:"type:timestamptz"`
	OccupantRef      string     `gorm:"type:varchar(100)"` // Booking holding or occupying the unit
	Notes            string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (UnitStatus) TableName() string {
	return "unit_statuses"
}

// NewUnitStatus creates a unit in the available state
func NewUnitStatus(tenantID, propertyID, unitID uuid.UUID) (*UnitStatus, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}

	return &UnitStatus{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		UnitID:              unitID,
		Status:              StatusAvailable,
	}, nil
}

// CanTransitionTo reports whether moving to target is legal. Moving to
// an administrative state is legal from any state except occupied
// without the override.
func (u *UnitStatus) CanTransitionTo(target Status, override bool) bool {
	if !target.IsValid() || target == u.Status {
		return false
	}
	if target.IsAdministrative() {
		return u.Status != StatusOccupied || override
	}
	for _, allowed := range transitions[u.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the unit to the target state. Illegal transitions
// fail with no state change; no implicit intermediate transitions are
// inferred (maintenance cannot jump to occupied).
func (u *UnitStatus) TransitionTo(target Status, override bool) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown unit status: "+target.String())
	}
	if !u.CanTransitionTo(target, override) {
		return shared.ErrInvalidTransition
	}

	from := u.Status
	u.Status = target
	u.applySideEffects(from, target)
	u.touch()

	u.AddDomainEvent(NewUnitStatusChangedEvent(u, from, override))
	return nil
}

// Occupy moves the unit to occupied for the given occupant. From
// reserved, the occupant must match the holding booking.
func (u *UnitStatus) Occupy(occupantRef string, estimatedVacancy *time.Time) error {
	if occupantRef == "" {
		return shared.NewDomainError("INVALID_OCCUPANT", "Occupant reference is required")
	}
	if u.Status == StatusReserved && u.OccupantRef != occupantRef {
		return shared.ErrInvalidTransition
	}
	if !u.CanTransitionTo(StatusOccupied, false) {
		return shared.ErrInvalidTransition
	}
	u.OccupantRef = occupantRef
	u.EstimatedVacancy = estimatedVacancy
	return u.TransitionTo(StatusOccupied, false)
}

// ReserveFor holds the unit for a booking
func (u *UnitStatus) ReserveFor(bookingRef string) error {
	if bookingRef == "" {
		return shared.NewDomainError("INVALID_BOOKING_REF", "Booking reference is required")
	}
	if !u.CanTransitionTo(StatusReserved, false) {
		return shared.ErrInvalidTransition
	}
	u.OccupantRef = bookingRef
	return u.TransitionTo(StatusReserved, false)
}

// AllowsAssignment reports whether a booking may be assigned to this
// unit: the unit is free, or it is reserved for that same booking.
func (u *UnitStatus) AllowsAssignment(bookingRef string) bool {
	switch u.Status {
	case StatusAvailable:
		return true
	case StatusReserved:
		return bookingRef != "" && u.OccupantRef == bookingRef
	}
	return false
}

// SetNotes replaces the operational notes
func (u *UnitStatus) SetNotes(notes string) {
	u.Notes = notes
	u.touch()
}

func (u *UnitStatus) applySideEffects(from, to Status) {
	switch to {
	case StatusOccupied:
		now := time.Now()
		u.OccupiedAt = &now
	case StatusAvailable:
		u.OccupiedAt = nil
		u.EstimatedVacancy = nil
		u.OccupantRef = ""
	default:
		if from == StatusOccupied {
			u.OccupiedAt = nil
			u.EstimatedVacancy = nil
			u.OccupantRef = ""
		}
	}
}

func (u *UnitStatus) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
