package alerting

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/alerting"
)

// AlertResponse represents an alert in API responses
type AlertResponse struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    uuid.UUID          `json:"tenant_id"`
	PropertyID  uuid.UUID          `json:"property_id"`
	ResourceID  uuid.UUID          `json:"resource_id"`
	Type        alerting.AlertType `json:"type"`
	Severity    alerting.Severity  `json:"severity"`
	Message     string             `json:"message"`
	Resolved    bool               `json:"resolved"`
	AutoResolve bool               `json:"auto_resolved"`
	RaisedAt    time.Time          `json:"raised_at"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty"`
	ResolvedBy  *uuid.UUID         `json:"resolved_by,omitempty"`
}

// ToAlertResponse converts a domain alert to a response
func ToAlertResponse(a *alerting.Alert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		PropertyID:  a.PropertyID,
		ResourceID:  a.ResourceID,
		Type:        a.Type,
		Severity:    a.Severity,
		Message:     a.Message,
		Resolved:    a.Resolved,
		AutoResolve: a.AutoResolve,
		RaisedAt:    a.RaisedAt,
		ResolvedAt:  a.ResolvedAt,
		ResolvedBy:  a.ResolvedBy,
	}
}

// ToAlertResponses converts a slice of alerts
func ToAlertResponses(alerts []alerting.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses
}

// AlertListFilter represents filter options for the alert list
type AlertListFilter struct {
	ResourceID *uuid.UUID `form:"resource_id"`
	Type       string     `form:"type" binding:"omitempty,oneof=low_stock out_of_stock overstock capacity_exhausted expiring_soon"`
	Resolved   *bool      `form:"resolved"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ResolveAlertRequest represents a manual alert resolution
type ResolveAlertRequest struct {
	ResolvedBy *uuid.UUID `json:"resolved_by"`
}
