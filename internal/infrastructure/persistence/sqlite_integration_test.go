package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/shared"
)

// newSQLiteDB opens a file-backed SQLite database so the repositories can
// be exercised end-to-end, including upserts and version-checked updates.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "engine.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&availability.ResourceAvailability{},
		&availability.Movement{},
		&calendar.CapacitySlot{},
		&calendar.BookingSlotEntry{},
	))
	return db
}

func TestGormResourceAvailabilityRepository_GetOrCreate_Integration(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormResourceAvailabilityRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	propertyID := uuid.New()
	resourceID := uuid.New()

	first, err := repo.GetOrCreate(ctx, tenantID, propertyID, resourceID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	// Second call must return the existing row, not insert a duplicate
	second, err := repo.GetOrCreate(ctx, tenantID, propertyID, resourceID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&availability.ResourceAvailability{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormResourceAvailabilityRepository_SaveWithLock_Integration(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormResourceAvailabilityRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	row, err := repo.GetOrCreate(ctx, tenantID, uuid.New(), uuid.New())
	require.NoError(t, err)

	// Two copies of the same version race to save
	stale, err := repo.FindByResource(ctx, tenantID, row.ResourceID)
	require.NoError(t, err)

	_, err = row.StockIn(decimal.NewFromInt(10), "delivery", availability.Reference{}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, row))

	_, err = stale.StockIn(decimal.NewFromInt(5), "delivery", availability.Reference{}, nil)
	require.NoError(t, err)
	err = repo.SaveWithLock(ctx, stale)
	assert.True(t, shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED"))

	// The winning write is what persisted
	reloaded, err := repo.FindByResource(ctx, tenantID, row.ResourceID)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentQuantity.Equal(decimal.NewFromInt(10)))
}

func TestGormMovementRepository_AppendAndQuery_Integration(t *testing.T) {
	db := newSQLiteDB(t)
	availabilityRepo := NewGormResourceAvailabilityRepository(db)
	movementRepo := NewGormMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	row, err := availabilityRepo.GetOrCreate(ctx, tenantID, uuid.New(), uuid.New())
	require.NoError(t, err)

	ref := availability.Reference{Type: "booking", ID: "bk-100"}
	mvIn, err := row.StockIn(decimal.NewFromInt(8), "delivery", availability.Reference{}, nil)
	require.NoError(t, err)
	mvReserve, err := row.Reserve(decimal.NewFromInt(3), "booking hold", ref, nil)
	require.NoError(t, err)

	require.NoError(t, movementRepo.Create(ctx, mvIn))
	require.NoError(t, movementRepo.Create(ctx, mvReserve))

	// Newest first
	movements, err := movementRepo.FindByResource(ctx, tenantID, row.ResourceID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	byRef, err := movementRepo.FindByReference(ctx, tenantID, "booking", "bk-100")
	require.NoError(t, err)
	require.Len(t, byRef, 1)
	assert.Equal(t, availability.MovementTypeReservation, byRef[0].Type)

	count, err := movementRepo.CountByResource(ctx, tenantID, row.ResourceID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormCapacitySlotRepository_Integration(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCapacitySlotRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	propertyID := uuid.New()
	resourceID := uuid.New()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slot, err := calendar.NewCapacitySlot(tenantID, propertyID, resourceID, date, "18:00", "20:00", 4)
	require.NoError(t, err)

	inserted, err := repo.CreateIfAbsent(ctx, slot)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same resource, date and window is a no-op
	dup, err := calendar.NewCapacitySlot(tenantID, propertyID, resourceID, date, "18:00", "20:00", 4)
	require.NoError(t, err)
	inserted, err = repo.CreateIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	entry, err := slot.Book(2, "bk-200")
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, slot))

	found, err := repo.FindBySlotEntry(ctx, tenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, found.ID)
	assert.Equal(t, 2, found.CurrentBookings)

	released, err := found.Release(entry.ID)
	require.NoError(t, err)
	assert.True(t, released)
	require.NoError(t, repo.SaveWithLock(ctx, found))

	reloaded, err := repo.FindByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.CurrentBookings)
	require.Len(t, reloaded.Entries, 1)
	assert.NotNil(t, reloaded.Entries[0].ReleasedAt)
}
