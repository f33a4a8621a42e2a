package unit

import (
	"context"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// UnitStatusRepository defines persistence for unit statuses
type UnitStatusRepository interface {
	// FindByID finds a unit status row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*UnitStatus, error)

	// FindByUnit finds the status row for a unit within a tenant
	FindByUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*UnitStatus, error)

	// FindByProperty finds unit statuses for a property
	FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]UnitStatus, error)

	// FindByStatus finds a tenant's units in a given state
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status Status, filter shared.Filter) ([]UnitStatus, error)

	// Save creates or updates a unit status row
	Save(ctx context.Context, u *UnitStatus) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, u *UnitStatus) error

	// GetOrCreate gets the existing row or creates one in the available state
	GetOrCreate(ctx context.Context, tenantID, propertyID, unitID uuid.UUID) (*UnitStatus, error)
}
