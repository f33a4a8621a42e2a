package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/shared"
)

// GormResourceAvailabilityRepository implements ResourceAvailabilityRepository using GORM
type GormResourceAvailabilityRepository struct {
	db *gorm.DB
}

// NewGormResourceAvailabilityRepository creates a new GormResourceAvailabilityRepository
func NewGormResourceAvailabilityRepository(db *gorm.DB) *GormResourceAvailabilityRepository {
	return &GormResourceAvailabilityRepository{db: db}
}

// FindByID finds an availability row by its ID
func (r *GormResourceAvailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.ResourceAvailability, error) {
	var row availability.ResourceAvailability
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByResource finds the availability row for a resource within a tenant
func (r *GormResourceAvailabilityRepository) FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (*availability.ResourceAvailability, error) {
	var row availability.ResourceAvailability
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_id = ?", tenantID, resourceID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByProperty finds all availability rows for a property
func (r *GormResourceAvailabilityRepository) FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]availability.ResourceAvailability, error) {
	var rows []availability.ResourceAvailability
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&availability.ResourceAvailability{}).
			Where("tenant_id = ? AND property_id = ?", tenantID, propertyID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAllForTenant finds all availability rows for a tenant
func (r *GormResourceAvailabilityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]availability.ResourceAvailability, error) {
	var rows []availability.ResourceAvailability
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&availability.ResourceAvailability{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindLowStock finds rows whose available quantity is at or below threshold
func (r *GormResourceAvailabilityRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]availability.ResourceAvailability, error) {
	var rows []availability.ResourceAvailability
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&availability.ResourceAvailability{}).
			Where("tenant_id = ? AND (current_quantity - reserved_quantity) <= minimum_threshold", tenantID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates an availability row without a version check
func (r *GormResourceAvailabilityRepository) Save(ctx context.Context, a *availability.ResourceAvailability) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// SaveWithLock saves with optimistic locking. The WHERE clause pins the
// stored version to the one the aggregate was loaded at; zero affected
// rows means a concurrent writer got there first.
func (r *GormResourceAvailabilityRepository) SaveWithLock(ctx context.Context, a *availability.ResourceAvailability) error {
	result := r.db.WithContext(ctx).
		Model(a).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Updates(map[string]interface{}{
			"current_quantity":  a.CurrentQuantity,
			"reserved_quantity": a.ReservedQuantity,
			"minimum_threshold": a.MinimumThreshold,
			"maximum_capacity":  a.MaximumCapacity,
			"version":           a.Version,
			"updated_at":        a.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}

// GetOrCreate gets the existing row or creates an empty one
func (r *GormResourceAvailabilityRepository) GetOrCreate(ctx context.Context, tenantID, propertyID, resourceID uuid.UUID) (*availability.ResourceAvailability, error) {
	row, err := r.FindByResource(ctx, tenantID, resourceID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	row, err = availability.NewResourceAvailability(tenantID, propertyID, resourceID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT handles the race where two callers create the same row
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_id"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	if row.ID == uuid.Nil {
		return r.FindByResource(ctx, tenantID, resourceID)
	}
	return row, nil
}

// CountForTenant counts availability rows matching the filter
func (r *GormResourceAvailabilityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&availability.ResourceAvailability{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormResourceAvailabilityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}
	return query
}

func (r *GormResourceAvailabilityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "resource_id":
			query = query.Where("resource_id = ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("(current_quantity - reserved_quantity) <= minimum_threshold")
			}
		case "out_of_stock":
			if value == true {
				query = query.Where("(current_quantity - reserved_quantity) <= 0")
			}
		case "overstock":
			if value == true {
				query = query.Where("maximum_capacity IS NOT NULL AND current_quantity > maximum_capacity")
			}
		}
	}
	return query
}

var _ availability.ResourceAvailabilityRepository = (*GormResourceAvailabilityRepository)(nil)
