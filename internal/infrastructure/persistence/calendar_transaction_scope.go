package persistence

import (
	"context"

	"gorm.io/gorm"

	appcalendar "github.com/stayops/backend/internal/application/calendar"
	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/unit"
)

// GormCalendarTransactionScope implements the booking path's
// TransactionScope on a GORM transaction. All repositories handed to
// the callback share one transaction, so a multi-slot booking commits
// or rolls back as a unit.
type GormCalendarTransactionScope struct {
	db *gorm.DB
}

// NewGormCalendarTransactionScope creates a new transaction scope
func NewGormCalendarTransactionScope(db *gorm.DB) *GormCalendarTransactionScope {
	return &GormCalendarTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormCalendarTransactionScope) Execute(ctx context.Context, fn func(repos appcalendar.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) SlotRepo() calendar.CapacitySlotRepository {
	return NewGormCapacitySlotRepository(r.tx)
}

func (r *gormTransactionalRepositories) UnitRepo() unit.UnitStatusRepository {
	return NewGormUnitStatusRepository(r.tx)
}

var _ appcalendar.TransactionScope = (*GormCalendarTransactionScope)(nil)
