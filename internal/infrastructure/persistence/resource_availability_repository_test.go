package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection over a mocked SQL driver
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func availabilityRows(a *availability.ResourceAvailability) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "property_id", "resource_id",
		"current_quantity", "reserved_quantity", "minimum_threshold", "maximum_capacity",
		"version",
	}).AddRow(
		a.ID, a.TenantID, a.PropertyID, a.ResourceID,
		a.CurrentQuantity, a.ReservedQuantity, a.MinimumThreshold, nil,
		a.Version,
	)
}

func TestGormResourceAvailabilityRepository_FindByResource(t *testing.T) {
	t.Run("finds existing row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormResourceAvailabilityRepository(db)

		tenantID := uuid.New()
		a, err := availability.NewResourceAvailability(tenantID, uuid.New(), uuid.New())
		require.NoError(t, err)
		a.CurrentQuantity = decimal.NewFromInt(10)

		mock.ExpectQuery(`SELECT \* FROM "resource_availability" WHERE tenant_id = \$1 AND resource_id = \$2`).
			WithArgs(tenantID, a.ResourceID, 1).
			WillReturnRows(availabilityRows(a))

		found, err := repo.FindByResource(context.Background(), tenantID, a.ResourceID)

		require.NoError(t, err)
		assert.Equal(t, a.ID, found.ID)
		assert.True(t, found.CurrentQuantity.Equal(decimal.NewFromInt(10)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormResourceAvailabilityRepository(db)

		tenantID := uuid.New()
		resourceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "resource_availability"`).
			WithArgs(tenantID, resourceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByResource(context.Background(), tenantID, resourceID)

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResourceAvailabilityRepository_SaveWithLock(t *testing.T) {
	t.Run("persists when stored version matches", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormResourceAvailabilityRepository(db)

		a, err := availability.NewResourceAvailability(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		_, err = a.StockIn(decimal.NewFromInt(5), "initial stock", availability.Reference{}, nil)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "resource_availability" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), a)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces version conflict as optimistic lock failure", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormResourceAvailabilityRepository(db)

		a, err := availability.NewResourceAvailability(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		_, err = a.StockIn(decimal.NewFromInt(5), "initial stock", availability.Reference{}, nil)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "resource_availability" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), a)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_Create(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementRepository(db)

	a, err := availability.NewResourceAvailability(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	mv, err := a.StockIn(decimal.NewFromInt(3), "delivery", availability.Reference{Type: "purchase", ID: "po-1"}, nil)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "movements"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), mv)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
