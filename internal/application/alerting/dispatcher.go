package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayops/backend/internal/domain/alerting"
	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/shared"
)

// DefaultDedupInterval is the minimum gap between repeated
// notifications for the same alert key.
const DefaultDedupInterval = 15 * time.Minute

// Dispatcher turns threshold-crossing domain events into alerts and
// notifications. Entering a flagged state opens an alert iff no open
// alert of that (resource, type) exists; recovery events auto-resolve.
// Delivery failures are logged and never propagated, so the core
// mutation that emitted the event can never be failed by alerting.
type Dispatcher struct {
	logger        *zap.Logger
	alertRepo     alerting.AlertRepository
	notifier      Notifier
	dedup         DedupStore
	dedupInterval time.Duration
}

// NewDispatcher creates a new alert dispatcher
func NewDispatcher(logger *zap.Logger, alertRepo alerting.AlertRepository) *Dispatcher {
	return &Dispatcher{
		logger:        logger,
		alertRepo:     alertRepo,
		dedupInterval: DefaultDedupInterval,
	}
}

// WithNotifier sets the notifier for delivering alerts
func (d *Dispatcher) WithNotifier(notifier Notifier) *Dispatcher {
	d.notifier = notifier
	return d
}

// WithDedupStore sets the notification dedup store
func (d *Dispatcher) WithDedupStore(store DedupStore, interval time.Duration) *Dispatcher {
	d.dedup = store
	if interval > 0 {
		d.dedupInterval = interval
	}
	return d
}

// EventTypes returns the event types this handler is interested in
func (d *Dispatcher) EventTypes() []string {
	return []string{
		availability.EventTypeLowStockEntered,
		availability.EventTypeLowStockCleared,
		availability.EventTypeOutOfStockEntered,
		availability.EventTypeOutOfStockCleared,
		availability.EventTypeOverstockEntered,
		availability.EventTypeOverstockCleared,
		calendar.EventTypeCapacityExhausted,
		calendar.EventTypeCapacityFreed,
	}
}

// Handle processes one threshold-crossing event
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *availability.LowStockEnteredEvent:
		return d.raise(ctx, e.TenantID(), e.PropertyID, e.ResourceID, alerting.AlertTypeLowStock,
			fmt.Sprintf("Available quantity %s at or below minimum threshold %s",
				e.AvailableQuantity, e.MinimumThreshold))
	case *availability.LowStockClearedEvent:
		return d.resolve(ctx, e.TenantID(), e.ResourceID, alerting.AlertTypeLowStock)
	case *availability.OutOfStockEnteredEvent:
		return d.raise(ctx, e.TenantID(), e.PropertyID, e.ResourceID, alerting.AlertTypeOutOfStock,
			fmt.Sprintf("No available quantity left (current %s, reserved %s)",
				e.CurrentQuantity, e.ReservedQuantity))
	case *availability.OutOfStockClearedEvent:
		return d.resolve(ctx, e.TenantID(), e.ResourceID, alerting.AlertTypeOutOfStock)
	case *availability.OverstockEnteredEvent:
		return d.raise(ctx, e.TenantID(), e.PropertyID, e.ResourceID, alerting.AlertTypeOverstock,
			fmt.Sprintf("Current quantity %s exceeds maximum capacity", e.CurrentQuantity))
	case *availability.OverstockClearedEvent:
		return d.resolve(ctx, e.TenantID(), e.ResourceID, alerting.AlertTypeOverstock)
	case *calendar.CapacityExhaustedEvent:
		return d.raise(ctx, e.TenantID(), e.PropertyID, e.ResourceID, alerting.AlertTypeCapacityExhausted,
			fmt.Sprintf("Slot %s %s-%s fully booked (%d/%d)",
				e.Date.Format("2006-01-02"), e.WindowStart, e.WindowEnd, e.CurrentBookings, e.MaxCapacity))
	case *calendar.CapacityFreedEvent:
		return d.resolve(ctx, e.TenantID(), e.ResourceID, alerting.AlertTypeCapacityExhausted)
	}
	return nil
}

// raise opens an alert unless one is already open for (resource, type)
func (d *Dispatcher) raise(ctx context.Context, tenantID, propertyID, resourceID uuid.UUID, alertType alerting.AlertType, message string) error {
	open, err := d.alertRepo.FindOpen(ctx, tenantID, resourceID, alertType)
	if err != nil && !shared.IsCode(err, "NOT_FOUND") {
		d.logger.Error("failed to query open alerts",
			zap.String("resource_id", resourceID.String()),
			zap.String("alert_type", alertType.String()),
			zap.Error(err),
		)
		return err
	}
	if open != nil {
		return nil
	}

	alert, err := alerting.NewAlert(tenantID, propertyID, resourceID, alertType, "", message)
	if err != nil {
		return err
	}
	if err := d.alertRepo.Create(ctx, alert); err != nil {
		d.logger.Error("failed to create alert",
			zap.String("resource_id", resourceID.String()),
			zap.String("alert_type", alertType.String()),
			zap.Error(err),
		)
		return err
	}

	d.logger.Warn("alert raised",
		zap.String("tenant_id", tenantID.String()),
		zap.String("resource_id", resourceID.String()),
		zap.String("alert_type", alertType.String()),
		zap.String("severity", alert.Severity.String()),
		zap.String("message", message),
	)

	d.notify(ctx, alert)
	return nil
}

// resolve auto-resolves the open alert for (resource, type), if any
func (d *Dispatcher) resolve(ctx context.Context, tenantID, resourceID uuid.UUID, alertType alerting.AlertType) error {
	open, err := d.alertRepo.FindOpen(ctx, tenantID, resourceID, alertType)
	if err != nil && !shared.IsCode(err, "NOT_FOUND") {
		return err
	}
	if open == nil {
		return nil
	}

	open.MarkAutoResolved()
	if err := d.alertRepo.Save(ctx, open); err != nil {
		d.logger.Error("failed to auto-resolve alert",
			zap.String("alert_id", open.ID.String()),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("alert auto-resolved",
		zap.String("alert_id", open.ID.String()),
		zap.String("resource_id", resourceID.String()),
		zap.String("alert_type", alertType.String()),
	)
	return nil
}

// notify delivers the notification, gated by the dedup store. Failures
// are logged with DISPATCH_FAILURE semantics and swallowed.
func (d *Dispatcher) notify(ctx context.Context, alert *alerting.Alert) {
	if d.notifier == nil {
		return
	}

	if d.dedup != nil {
		ok, err := d.dedup.ShouldNotify(ctx, alert.NotificationKey(), d.dedupInterval)
		if err != nil {
			// A broken dedup store must not silence alerts
			d.logger.Debug("dedup store unavailable, notifying anyway", zap.Error(err))
		} else if !ok {
			d.logger.Debug("notification suppressed by dedup interval",
				zap.String("key", alert.NotificationKey()),
			)
			return
		}
	}

	notification := Notification{
		TenantID:   alert.TenantID,
		ResourceID: alert.ResourceID,
		AlertType:  alert.Type,
		Severity:   alert.Severity,
		Message:    alert.Message,
	}
	if err := d.notifier.SendNotification(ctx, notification); err != nil {
		d.logger.Error("alert notification delivery failed",
			zap.String("code", shared.ErrDispatchFailure.Code),
			zap.String("resource_id", alert.ResourceID.String()),
			zap.String("alert_type", alert.Type.String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventHandler = (*Dispatcher)(nil)
