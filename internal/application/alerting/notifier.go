package alerting

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayops/backend/internal/domain/alerting"
)

// Notification is the payload pushed to the external delivery service
type Notification struct {
	TenantID   uuid.UUID          `json:"tenant_id"`
	ResourceID uuid.UUID          `json:"resource_id"`
	AlertType  alerting.AlertType `json:"alert_type"`
	Severity   alerting.Severity  `json:"severity"`
	Message    string             `json:"message"`
}

// Notifier delivers alert notifications. Implementations can target
// different channels (log, webhook, email).
type Notifier interface {
	// SendNotification delivers one notification
	SendNotification(ctx context.Context, n Notification) error
}

// LoggingNotifier logs notifications instead of delivering them.
// Useful for development and as the default wiring.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// SendNotification logs the notification
func (n *LoggingNotifier) SendNotification(_ context.Context, notification Notification) error {
	n.logger.Warn("RESOURCE ALERT",
		zap.String("tenant_id", notification.TenantID.String()),
		zap.String("resource_id", notification.ResourceID.String()),
		zap.String("alert_type", notification.AlertType.String()),
		zap.String("severity", notification.Severity.String()),
		zap.String("message", notification.Message),
	)
	return nil
}

var _ Notifier = (*LoggingNotifier)(nil)
