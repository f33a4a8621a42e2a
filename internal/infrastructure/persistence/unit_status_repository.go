package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/domain/unit"
)

// GormUnitStatusRepository implements UnitStatusRepository using GORM
type GormUnitStatusRepository struct {
	db *gorm.DB
}

// NewGormUnitStatusRepository creates a new GormUnitStatusRepository
func NewGormUnitStatusRepository(db *gorm.DB) *GormUnitStatusRepository {
	return &GormUnitStatusRepository{db: db}
}

// FindByID finds a unit status row by its ID
func (r *GormUnitStatusRepository) FindByID(ctx context.Context, id uuid.UUID) (*unit.UnitStatus, error) {
	var row unit.UnitStatus
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByUnit finds the status row for a unit within a tenant
func (r *GormUnitStatusRepository) FindByUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*unit.UnitStatus, error) {
	var row unit.UnitStatus
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND unit_id = ?", tenantID, unitID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByProperty finds unit statuses for a property
func (r *GormUnitStatusRepository) FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]unit.UnitStatus, error) {
	var rows []unit.UnitStatus
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&unit.UnitStatus{}).
			Where("tenant_id = ? AND property_id = ?", tenantID, propertyID),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByStatus finds a tenant's units in a given state
func (r *GormUnitStatusRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status unit.Status, filter shared.Filter) ([]unit.UnitStatus, error) {
	var rows []unit.UnitStatus
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&unit.UnitStatus{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates a unit status row
func (r *GormUnitStatusRepository) Save(ctx context.Context, u *unit.UnitStatus) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormUnitStatusRepository) SaveWithLock(ctx context.Context, u *unit.UnitStatus) error {
	result := r.db.WithContext(ctx).
		Model(u).
		Where("id = ? AND version = ?", u.ID, u.Version-1).
		Updates(map[string]interface{}{
			"status":            u.Status,
			"occupied_at":       u.OccupiedAt,
			"estimated_vacancy": u.EstimatedVacancy,
			"occupant_ref":      u.OccupantRef,
			"notes":             u.Notes,
			"version":           u.Version,
			"updated_at":        u.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}

// GetOrCreate gets the existing row or creates one in the available state
func (r *GormUnitStatusRepository) GetOrCreate(ctx context.Context, tenantID, propertyID, unitID uuid.UUID) (*unit.UnitStatus, error) {
	row, err := r.FindByUnit(ctx, tenantID, unitID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	row, err = unit.NewUnitStatus(tenantID, propertyID, unitID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	if row.ID == uuid.Nil {
		return r.FindByUnit(ctx, tenantID, unitID)
	}
	return row, nil
}

func (r *GormUnitStatusRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "occupant_ref":
			query = query.Where("occupant_ref = ?", value)
		}
	}

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
		query = query.Order("updated_at DESC")
	}
	return query
}

var _ unit.UnitStatusRepository = (*GormUnitStatusRepository)(nil)
