package availability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stayops/backend/internal/domain/shared"
)

// MovementType represents the type of ledger movement
type MovementType string

const (
	// MovementTypeIn represents stock/capacity entering the resource pool
	MovementTypeIn MovementType = "in"
	// MovementTypeOut represents stock/capacity leaving the resource pool
	MovementTypeOut MovementType = "out"
	// MovementTypeAdjustment represents a correction to the owned quantity
	MovementTypeAdjustment MovementType = "adjustment"
	// MovementTypeReservation commits quantity against future use
	MovementTypeReservation MovementType = "reservation"
	// MovementTypeRelease reverses a prior reservation
	MovementTypeRelease MovementType = "release"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn,
		MovementTypeOut,
		MovementTypeAdjustment,
		MovementTypeReservation,
		MovementTypeRelease:
		return true
	}
	return false
}

// Reference identifies the business event that caused a movement
// (order, booking confirmation, purchase, housekeeping task, ...).
type Reference struct {
	Type string `gorm:"column:reference_type;type:varchar(50)" json:"type"`
	ID   string `gorm:"column:reference_id;type:varchar(100)" json:"id"`
}

// Movement is an immutable, append-only ledger entry recording a single
// change to a resource's committed/free quantity. It is the audit trail
// and the only legitimate way an availability snapshot changes; once
// created it is never mutated or deleted; reversal requires an explicit
// compensating release/adjustment movement.
type Movement struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_tenant_time,priority:1"`
	AvailabilityID uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_availability"`
	PropertyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ResourceID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_resource"`
	Type           MovementType    `gorm:"type:varchar(20);not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction encoded by Type
	Reason         string          `gorm:"type:varchar(255)"`
	Reference      Reference       `gorm:"embedded"`
	ActorID        *uuid.UUID      `gorm:"type:uuid"`
	BalanceBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Available quantity before application
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Available quantity after application
	RecordedAt     time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

func newMovement(
	a *ResourceAvailability,
	movType MovementType,
	quantity decimal.Decimal,
	reason string,
	ref Reference,
	actorID *uuid.UUID,
	balanceBefore, balanceAfter decimal.Decimal,
) *Movement {
	return &Movement{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       a.TenantID,
		AvailabilityID: a.ID,
		PropertyID:     a.PropertyID,
		ResourceID:     a.ResourceID,
		Type:           movType,
		Quantity:       quantity,
		Reason:         reason,
		Reference:      ref,
		ActorID:        actorID,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		RecordedAt:     time.Now(),
	}
}

// SignedQuantity returns the quantity with sign based on movement type.
// Positive for movements that raise available quantity, negative otherwise.
// Adjustments carry the sign of the balance delta they produced.
func (m *Movement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementTypeIn, MovementTypeRelease:
		return m.Quantity
	case MovementTypeOut, MovementTypeReservation:
		return m.Quantity.Neg()
	case MovementTypeAdjustment:
		if m.BalanceAfter.LessThan(m.BalanceBefore) {
			return m.Quantity.Neg()
		}
		return m.Quantity
	}
	return m.Quantity
}

// BalanceDelta returns the net change to available quantity
func (m *Movement) BalanceDelta() decimal.Decimal {
	return m.BalanceAfter.Sub(m.BalanceBefore)
}
