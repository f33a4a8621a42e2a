package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/shared"
)

// GormCapacitySlotRepository implements CapacitySlotRepository using GORM
type GormCapacitySlotRepository struct {
	db *gorm.DB
}

// NewGormCapacitySlotRepository creates a new GormCapacitySlotRepository
func NewGormCapacitySlotRepository(db *gorm.DB) *GormCapacitySlotRepository {
	return &GormCapacitySlotRepository{db: db}
}

// FindByID finds a slot with its entries
func (r *GormCapacitySlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*calendar.CapacitySlot, error) {
	var slot calendar.CapacitySlot
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// FindByResourceAndDateRange finds slots for a resource in [from, to],
// ordered by date and window
func (r *GormCapacitySlotRepository) FindByResourceAndDateRange(ctx context.Context, tenantID, resourceID uuid.UUID, from, to time.Time) ([]calendar.CapacitySlot, error) {
	var slots []calendar.CapacitySlot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_id = ? AND date >= ? AND date <= ?", tenantID, resourceID, from, to).
		Order("date ASC, window_start ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// FindOverlapping finds the slots on one date whose half-open windows
// intersect [windowStart, windowEnd). Zero-padded HH:MM strings compare
// lexicographically, so the overlap test runs in SQL.
func (r *GormCapacitySlotRepository) FindOverlapping(ctx context.Context, tenantID, resourceID uuid.UUID, date time.Time, windowStart, windowEnd string) ([]calendar.CapacitySlot, error) {
	var slots []calendar.CapacitySlot
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("tenant_id = ? AND resource_id = ? AND date = ? AND window_start < ? AND ? < window_end",
			tenantID, resourceID, date, windowEnd, windowStart).
		Order("window_start ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// FindBySlotEntry finds the slot owning a booking entry, with its entries
func (r *GormCapacitySlotRepository) FindBySlotEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*calendar.CapacitySlot, error) {
	var entry calendar.BookingSlotEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, entry.SlotID)
}

// CreateIfAbsent inserts a slot unless its (resource, date, window) row
// already exists. Returns true when the row was inserted, making slot
// generation idempotent under concurrent runs.
func (r *GormCapacitySlotRepository) CreateIfAbsent(ctx context.Context, slot *calendar.CapacitySlot) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "date"}, {Name: "window_start"}},
			DoNothing: true,
		}).
		Omit("Entries").
		Create(slot)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveWithLock saves a slot and its entries with optimistic locking.
// The slot row update and the entry upserts run in one transaction so a
// version conflict leaves no orphaned entries behind.
func (r *GormCapacitySlotRepository) SaveWithLock(ctx context.Context, slot *calendar.CapacitySlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(slot).
			Where("id = ? AND version = ?", slot.ID, slot.Version-1).
			Updates(map[string]interface{}{
				"current_bookings": slot.CurrentBookings,
				"max_capacity":     slot.MaxCapacity,
				"version":          slot.Version,
				"updated_at":       slot.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrOptimisticLock
		}

		if len(slot.Entries) == 0 {
			return nil
		}
		// Upsert entries: new bookings insert, releases update in place
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"released_at", "updated_at"}),
			}).
			Create(&slot.Entries).Error
	})
}

var _ calendar.CapacitySlotRepository = (*GormCapacitySlotRepository)(nil)
