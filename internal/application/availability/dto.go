package availability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stayops/backend/internal/domain/availability"
)

// AvailabilityResponse represents an availability snapshot in API responses
type AvailabilityResponse struct {
	ID                uuid.UUID        `json:"id"`
	TenantID          uuid.UUID        `json:"tenant_id"`
	PropertyID        uuid.UUID        `json:"property_id"`
	ResourceID        uuid.UUID        `json:"resource_id"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	ReservedQuantity  decimal.Decimal  `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal  `json:"available_quantity"`
	MinimumThreshold  decimal.Decimal  `json:"minimum_threshold"`
	MaximumCapacity   *decimal.Decimal `json:"maximum_capacity,omitempty"`
	IsLowStock        bool             `json:"is_low_stock"`
	IsOutOfStock      bool             `json:"is_out_of_stock"`
	IsOverstock       bool             `json:"is_overstock"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// ToAvailabilityResponse converts a domain aggregate to a response
func ToAvailabilityResponse(a *availability.ResourceAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:                a.ID,
		TenantID:          a.TenantID,
		PropertyID:        a.PropertyID,
		ResourceID:        a.ResourceID,
		CurrentQuantity:   a.CurrentQuantity,
		ReservedQuantity:  a.ReservedQuantity,
		AvailableQuantity: a.AvailableQuantity(),
		MinimumThreshold:  a.MinimumThreshold,
		MaximumCapacity:   a.MaximumCapacity,
		IsLowStock:        a.IsLowStock(),
		IsOutOfStock:      a.IsOutOfStock(),
		IsOverstock:       a.IsOverstock(),
		UpdatedAt:         a.UpdatedAt,
		Version:           a.GetVersion(),
	}
}

// MovementResponse represents a ledger entry in API responses
type MovementResponse struct {
	ID             uuid.UUID                 `json:"id"`
	AvailabilityID uuid.UUID                 `json:"availability_id"`
	PropertyID     uuid.UUID                 `json:"property_id"`
	ResourceID     uuid.UUID                 `json:"resource_id"`
	Type           availability.MovementType `json:"type"`
	Quantity       decimal.Decimal           `json:"quantity"`
	SignedQuantity decimal.Decimal           `json:"signed_quantity"`
	Reason         string                    `json:"reason,omitempty"`
	ReferenceType  string                    `json:"reference_type,omitempty"`
	ReferenceID    string                    `json:"reference_id,omitempty"`
	ActorID        *uuid.UUID                `json:"actor_id,omitempty"`
	BalanceBefore  decimal.Decimal           `json:"balance_before"`
	BalanceAfter   decimal.Decimal           `json:"balance_after"`
	RecordedAt     time.Time                 `json:"recorded_at"`
}

// ToMovementResponse converts a domain movement to a response
func ToMovementResponse(m *availability.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		AvailabilityID: m.AvailabilityID,
		PropertyID:     m.PropertyID,
		ResourceID:     m.ResourceID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		SignedQuantity: m.SignedQuantity(),
		Reason:         m.Reason,
		ReferenceType:  m.Reference.Type,
		ReferenceID:    m.Reference.ID,
		ActorID:        m.ActorID,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		RecordedAt:     m.RecordedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []availability.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// RecordMovementRequest represents a request to append a ledger movement
type RecordMovementRequest struct {
	PropertyID    uuid.UUID       `json:"property_id" binding:"required"`
	ResourceID    uuid.UUID       `json:"resource_id" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=in out adjustment reservation release"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Reason        string          `json:"reason"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	ActorID       *uuid.UUID      `json:"actor_id"`
}

// RecordMovementResult carries the movement and the updated snapshot
type RecordMovementResult struct {
	Movement     MovementResponse     `json:"movement"`
	Availability AvailabilityResponse `json:"availability"`
}

// SetThresholdsRequest represents a request to change alert thresholds
type SetThresholdsRequest struct {
	PropertyID       uuid.UUID        `json:"property_id" binding:"required"`
	MinimumThreshold decimal.Decimal  `json:"minimum_threshold"`
	MaximumCapacity  *decimal.Decimal `json:"maximum_capacity"`
}

// MovementListFilter represents filter options for the ledger audit query
type MovementListFilter struct {
	Type     string     `form:"type" binding:"omitempty,oneof=in out adjustment reservation release"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}
