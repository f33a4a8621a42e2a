package alerting

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/alerting"
	"github.com/stayops/backend/internal/domain/shared"
)

// AlertService handles alert queries and manual resolution
type AlertService struct {
	alertRepo alerting.AlertRepository
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alerting.AlertRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// List returns a tenant's alerts, open first
func (s *AlertService) List(ctx context.Context, tenantID uuid.UUID, filter AlertListFilter) (*shared.Paginated[AlertResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "raised_at"
	if filter.ResourceID != nil {
		domainFilter.Filters["resource_id"] = *filter.ResourceID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Resolved != nil {
		domainFilter.Filters["resolved"] = *filter.Resolved
	}

	alerts, err := s.alertRepo.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.alertRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToAlertResponses(alerts), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Resolve closes an alert manually. Resolving an already resolved alert
// succeeds without changing it.
func (s *AlertService) Resolve(ctx context.Context, tenantID, alertID uuid.UUID, req ResolveAlertRequest) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownResource
		}
		return nil, err
	}
	if alert.TenantID != tenantID {
		return nil, shared.ErrUnknownResource
	}

	if alert.IsOpen() {
		resolvedBy := uuid.Nil
		if req.ResolvedBy != nil {
			resolvedBy = *req.ResolvedBy
		}
		alert.Resolve(resolvedBy)
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
	}

	response := ToAlertResponse(alert)
	return &response, nil
}
