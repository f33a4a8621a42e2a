package alerting

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
)

// AlertType classifies what condition raised an alert
type AlertType string

const (
	// AlertTypeLowStock means available quantity dropped to or below the minimum threshold
	AlertTypeLowStock AlertType = "low_stock"
	// AlertTypeOutOfStock means no quantity is available
	AlertTypeOutOfStock AlertType = "out_of_stock"
	// AlertTypeOverstock means current quantity exceeds the maximum capacity
	AlertTypeOverstock AlertType = "overstock"
	// AlertTypeCapacityExhausted means a calendar slot is fully booked
	AlertTypeCapacityExhausted AlertType = "capacity_exhausted"
	// AlertTypeExpiringSoon means a perishable resource approaches its expiry
	AlertTypeExpiringSoon AlertType = "expiring_soon"
)

// String returns the string representation of AlertType
func (t AlertType) String() string {
	return string(t)
}

// IsValid returns true if the alert type is known
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypeOutOfStock, AlertTypeOverstock,
		AlertTypeCapacityExhausted, AlertTypeExpiringSoon:
		return true
	}
	return false
}

// Severity ranks how urgently an alert needs attention
type Severity string

const (
	// SeverityInfo is informational only
	SeverityInfo Severity = "info"
	// SeverityWarning needs attention soon
	SeverityWarning Severity = "warning"
	// SeverityCritical blocks revenue or operations
	SeverityCritical Severity = "critical"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// DefaultSeverityFor maps an alert type to its default severity
func DefaultSeverityFor(alertType AlertType) Severity {
	switch alertType {
	case AlertTypeOutOfStock, AlertTypeCapacityExhausted:
		return SeverityCritical
	case AlertTypeLowStock, AlertTypeExpiringSoon:
		return SeverityWarning
	}
	return SeverityInfo
}

// Alert records one flagged condition on a resource. At most one open
// alert exists per (tenant, resource, type); recovery auto-resolves it
// and a later recurrence opens a fresh alert.
type Alert struct {
	shared.BaseEntity
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_alert_tenant_open,priority:1"`
	ResourceID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_alert_resource"`
	PropertyID  uuid.UUID  `gorm:"type:uuid;index"`
	Type        AlertType  `gorm:"type:varchar(30);not null;index"`
	Severity    Severity   `gorm:"type:varchar(10);not null"`
	Message     string     `gorm:"type:varchar(500);not null"`
	Resolved    bool       `gorm:"not null;default:false;index:idx_alert_tenant_open,priority:2"`
	RaisedAt    time.Time  `gorm:"type:timestamptz;not null"`
	ResolvedAt  *time.Time `gorm:"type:timestamptz"`
	ResolvedBy  *uuid.UUID `gorm:"type:uuid"` // Nil when auto-resolved by recovery
	AutoResolve bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "alerts"
}

// NewAlert raises an alert for a resource condition
func NewAlert(tenantID, propertyID, resourceID uuid.UUID, alertType AlertType, severity Severity, message string) (*Alert, error) {
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALERT_TYPE", "Unknown alert type: "+alertType.String())
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Alert message is required")
	}
	if severity == "" {
		severity = DefaultSeverityFor(alertType)
	}

	return &Alert{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PropertyID: propertyID,
		ResourceID: resourceID,
		Type:       alertType,
		Severity:   severity,
		Message:    message,
		RaisedAt:   time.Now(),
	}, nil
}

// IsOpen reports whether the alert still needs attention
func (a *Alert) IsOpen() bool {
	return !a.Resolved
}

// Resolve closes the alert manually. Resolving an already resolved
// alert is a no-op.
func (a *Alert) Resolve(resolvedBy uuid.UUID) {
	if a.Resolved {
		return
	}
	now := time.Now()
	a.Resolved = true
	a.ResolvedAt = &now
	if resolvedBy != uuid.Nil {
		a.ResolvedBy = &resolvedBy
	}
	a.UpdatedAt = now
}

// MarkAutoResolved closes the alert because the underlying condition
// recovered.
func (a *Alert) MarkAutoResolved() {
	if a.Resolved {
		return
	}
	now := time.Now()
	a.Resolved = true
	a.AutoResolve = true
	a.ResolvedAt = &now
	a.UpdatedAt = now
}

// NotificationKey identifies the alert stream for dedup purposes
func (a *Alert) NotificationKey() string {
	return a.TenantID.String() + ":" + a.ResourceID.String() + ":" + a.Type.String()
}
