package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/shared"
)

// GormMovementRepository implements MovementRepository using GORM.
// The ledger is append-only: this repository exposes no update or
// delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormMovementRepository) Create(ctx context.Context, mv *availability.Movement) error {
	return r.db.WithContext(ctx).Create(mv).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.Movement, error) {
	var mv availability.Movement
	if err := r.db.WithContext(ctx).First(&mv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mv, nil
}

// FindByResource finds movements for a resource, newest first
func (r *GormMovementRepository) FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID, filter shared.Filter) ([]availability.Movement, error) {
	var movements []availability.Movement
	query := r.db.WithContext(ctx).Model(&availability.Movement{}).
		Where("tenant_id = ? AND resource_id = ?", tenantID, resourceID)
	query = r.applyTypeFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("recorded_at DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference finds movements caused by a business event
func (r *GormMovementRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, refType, refID string) ([]availability.Movement, error) {
	var movements []availability.Movement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, refType, refID).
		Order("recorded_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDateRange finds movements within a time range
func (r *GormMovementRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]availability.Movement, error) {
	var movements []availability.Movement
	query := r.db.WithContext(ctx).Model(&availability.Movement{}).
		Where("tenant_id = ? AND recorded_at >= ? AND recorded_at <= ?", tenantID, start, end)
	query = r.applyTypeFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("recorded_at DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByResource counts movements for a resource
func (r *GormMovementRepository) CountByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&availability.Movement{}).
		Where("tenant_id = ? AND resource_id = ?", tenantID, resourceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMovementRepository) applyTypeFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "resource_id":
			query = query.Where("resource_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		}
	}
	return query
}

var _ availability.MovementRepository = (*GormMovementRepository)(nil)
