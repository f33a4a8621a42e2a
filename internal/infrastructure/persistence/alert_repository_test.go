package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stayops/backend/internal/domain/alerting"
)

func TestGormAlertRepository_FindOpen(t *testing.T) {
	t.Run("returns nil when no open alert exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAlertRepository(db)

		tenantID := uuid.New()
		resourceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "alerts"`).
			WithArgs(tenantID, resourceID, alerting.AlertTypeLowStock, false, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		alert, err := repo.FindOpen(context.Background(), tenantID, resourceID, alerting.AlertTypeLowStock)

		assert.NoError(t, err)
		assert.Nil(t, alert)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the open alert", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAlertRepository(db)

		tenantID := uuid.New()
		resourceID := uuid.New()
		created, err := alerting.NewAlert(tenantID, uuid.New(), resourceID, alerting.AlertTypeLowStock, "", "low")
		require.NoError(t, err)

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "property_id", "resource_id",
			"type", "severity", "message", "resolved", "raised_at",
		}).AddRow(
			created.ID, created.TenantID, created.PropertyID, created.ResourceID,
			created.Type, created.Severity, created.Message, created.Resolved, created.RaisedAt,
		)

		mock.ExpectQuery(`SELECT \* FROM "alerts"`).
			WithArgs(tenantID, resourceID, alerting.AlertTypeLowStock, false, 1).
			WillReturnRows(rows)

		alert, err := repo.FindOpen(context.Background(), tenantID, resourceID, alerting.AlertTypeLowStock)

		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, created.ID, alert.ID)
		assert.True(t, alert.IsOpen())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
