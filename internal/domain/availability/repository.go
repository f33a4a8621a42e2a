package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// ResourceAvailabilityRepository defines persistence for availability snapshots
type ResourceAvailabilityRepository interface {
	// FindByID finds an availability row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceAvailability, error)

	// FindByResource finds the availability row for a resource within a tenant
	FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (*ResourceAvailability, error)

	// FindByProperty finds all availability rows for a property
	FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]ResourceAvailability, error)

	// FindAllForTenant finds all availability rows for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ResourceAvailability, error)

	// FindLowStock finds rows whose available quantity is at or below threshold
	FindLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ResourceAvailability, error)

	// Save creates or updates an availability row without a version check
	Save(ctx context.Context, a *ResourceAvailability) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, a *ResourceAvailability) error

	// GetOrCreate gets the existing row or creates an empty one
	GetOrCreate(ctx context.Context, tenantID, propertyID, resourceID uuid.UUID) (*ResourceAvailability, error)

	// CountForTenant counts availability rows matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// MovementRepository defines persistence for the append-only ledger.
// Movements are never updated or deleted.
type MovementRepository interface {
	// Create appends a movement to the ledger
	Create(ctx context.Context, mv *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindByResource finds movements for a resource, newest first
	FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByReference finds movements caused by a business event
	FindByReference(ctx context.Context, tenantID uuid.UUID, refType, refID string) ([]Movement, error)

	// FindByDateRange finds movements within a time range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]Movement, error)

	// CountByResource counts movements for a resource
	CountByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (int64, error)
}
