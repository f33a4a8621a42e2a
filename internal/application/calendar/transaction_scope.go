package calendar

import (
	"context"

	"github.com/stayops/backend/internal/domain/calendar"
	"github.com/stayops/backend/internal/domain/unit"
)

// TransactionScope provides transactional access to the repositories the
// booking path touches. A multi-slot booking mutates several slot rows
// and must commit or roll back as one unit; running the mutation inside
// Execute gives it that all-or-nothing property.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the calendar repositories
// within a transaction. All repositories share the same underlying
// database transaction.
//
// BookingSlotEntry is a child entity of the CapacitySlot aggregate and
// has no independent repository; entries are persisted through the slot.
type TransactionalRepositories interface {
	// SlotRepo returns the capacity slot repository scoped to the current transaction
	SlotRepo() calendar.CapacitySlotRepository
	// UnitRepo returns the unit status repository scoped to the current transaction
	UnitRepo() unit.UnitStatusRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for stores without transaction support.
type NoOpTransactionScope struct {
	slotRepo calendar.CapacitySlotRepository
	unitRepo unit.UnitStatusRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(slotRepo calendar.CapacitySlotRepository, unitRepo unit.UnitStatusRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{slotRepo: slotRepo, unitRepo: unitRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SlotRepo returns the capacity slot repository.
func (s *NoOpTransactionScope) SlotRepo() calendar.CapacitySlotRepository {
	return s.slotRepo
}

// UnitRepo returns the unit status repository.
func (s *NoOpTransactionScope) UnitRepo() unit.UnitStatusRepository {
	return s.unitRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
