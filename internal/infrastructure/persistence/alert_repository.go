package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayops/backend/internal/domain/alerting"
	"github.com/stayops/backend/internal/domain/shared"
)

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alerting.Alert, error) {
	var alert alerting.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpen finds the open alert for (resource, type), or nil. The
// dispatcher relies on the nil return to decide whether entering a
// flagged state opens a new alert.
func (r *GormAlertRepository) FindOpen(ctx context.Context, tenantID, resourceID uuid.UUID, alertType alerting.AlertType) (*alerting.Alert, error) {
	var alert alerting.Alert
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_id = ? AND type = ? AND resolved = ?", tenantID, resourceID, alertType, false).
		Order("raised_at DESC").
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// FindForTenant finds a tenant's alerts matching the filter
func (r *GormAlertRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&alerting.Alert{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountForTenant counts alerts matching the filter
func (r *GormAlertRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&alerting.Alert{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new alert
func (r *GormAlertRepository) Create(ctx context.Context, alert *alerting.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// Save updates an existing alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *alerting.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *GormAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		// Open alerts first, then the requested ordering
		query = query.Order("resolved ASC").Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("resolved ASC").Order("raised_at DESC")
	}
	return query
}

func (r *GormAlertRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "resource_id":
			query = query.Where("resource_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "resolved":
			query = query.Where("resolved = ?", value)
		}
	}
	return query
}

var _ alerting.AlertRepository = (*GormAlertRepository)(nil)
