package unit

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/unit"
)

// UnitStatusResponse represents a unit's operational state in API responses
type UnitStatusResponse struct {
	ID               uuid.UUID   `json:"id"`
	TenantID         uuid.UUID   `json:"tenant_id"`
	PropertyID       uuid.UUID   `json:"property_id"`
	UnitID           uuid.UUID   `json:"unit_id"`
	Status           unit.Status `json:"status"`
	OccupiedAt       *time.Time  `json:"occupied_at,omitempty"`
	EstimatedVacancy *time.Time  `json:"estimated_vacancy,omitempty"`
	OccupantRef      string      `json:"occupant_ref,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Version          int         `json:"version"`
}

// ToUnitStatusResponse converts a domain unit status to a response
func ToUnitStatusResponse(u *unit.UnitStatus) UnitStatusResponse {
	return UnitStatusResponse{
		ID:               u.ID,
		TenantID:         u.TenantID,
		PropertyID:       u.PropertyID,
		UnitID:           u.UnitID,
		Status:           u.Status,
		OccupiedAt:       u.OccupiedAt,
		EstimatedVacancy: u.EstimatedVacancy,
		OccupantRef:      u.OccupantRef,
		Notes:            u.Notes,
		UpdatedAt:        u.UpdatedAt,
		Version:          u.GetVersion(),
	}
}

// TransitionStatusRequest represents a request to move a unit to a new state
type TransitionStatusRequest struct {
	PropertyID       uuid.UUID  `json:"property_id"`
	Status           string     `json:"status" binding:"required,oneof=available occupied reserved maintenance cleaning out_of_order"`
	Override         bool       `json:"override"`
	OccupantRef      string     `json:"occupant_ref"`
	EstimatedVacancy *time.Time `json:"estimated_vacancy"`
	Notes            string     `json:"notes"`
}
