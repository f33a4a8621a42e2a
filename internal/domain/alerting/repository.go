package alerting

import (
	"context"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// AlertRepository defines persistence for alerts
type AlertRepository interface {
	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindOpen finds the open alert for (resource, type), or nil
	FindOpen(ctx context.Context, tenantID, resourceID uuid.UUID, alertType AlertType) (*Alert, error)

	// FindForTenant finds a tenant's alerts, optionally filtered by
	// resolved state and type through the filter map
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// CountForTenant counts alerts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Create persists a new alert
	Create(ctx context.Context, alert *Alert) error

	// Save updates an existing alert
	Save(ctx context.Context, alert *Alert) error
}
