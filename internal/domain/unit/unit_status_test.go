package unit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/backend/internal/domain/shared"
)

func createTestUnit(t *testing.T) *UnitStatus {
	t.Helper()
	u, err := NewUnitStatus(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return u
}

func TestNewUnitStatus(t *testing.T) {
	t.Run("starts available", func(t *testing.T) {
		u := createTestUnit(t)

		assert.Equal(t, StatusAvailable, u.Status)
		assert.Nil(t, u.OccupiedAt)
		assert.Empty(t, u.OccupantRef)
	})

	t.Run("fails with nil unit ID", func(t *testing.T) {
		_, err := NewUnitStatus(uuid.New(), uuid.New(), uuid.Nil)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_UNIT"))
	})
}

func TestUnitStatus_NormalCycle(t *testing.T) {
	// available -> occupied -> cleaning -> available
	u := createTestUnit(t)

	require.NoError(t, u.Occupy("booking-1", nil))
	assert.Equal(t, StatusOccupied, u.Status)
	assert.NotNil(t, u.OccupiedAt)
	assert.Equal(t, "booking-1", u.OccupantRef)

	require.NoError(t, u.TransitionTo(StatusCleaning, false))
	assert.Equal(t, StatusCleaning, u.Status)
	assert.Nil(t, u.OccupiedAt)
	assert.Empty(t, u.OccupantRef)

	require.NoError(t, u.TransitionTo(StatusAvailable, false))
	assert.Equal(t, StatusAvailable, u.Status)
}

func TestUnitStatus_ReservedCycle(t *testing.T) {
	t.Run("reserved unit occupied by the same booking", func(t *testing.T) {
		u := createTestUnit(t)

		require.NoError(t, u.ReserveFor("booking-7"))
		assert.Equal(t, StatusReserved, u.Status)
		assert.Equal(t, "booking-7", u.OccupantRef)

		vacancy := time.Now().Add(48 * time.Hour)
		require.NoError(t, u.Occupy("booking-7", &vacancy))
		assert.Equal(t, StatusOccupied, u.Status)
		assert.Equal(t, &vacancy, u.EstimatedVacancy)
	})

	t.Run("reserved unit rejects a different booking", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.ReserveFor("booking-7"))

		err := u.Occupy("booking-8", nil)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))
		assert.Equal(t, StatusReserved, u.Status)
		assert.Equal(t, "booking-7", u.OccupantRef)
	})

	t.Run("reservation cancel returns to available", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.ReserveFor("booking-7"))

		require.NoError(t, u.TransitionTo(StatusAvailable, false))
		assert.Empty(t, u.OccupantRef)
	})
}

func TestUnitStatus_IllegalTransitions(t *testing.T) {
	t.Run("maintenance cannot jump to occupied", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.TransitionTo(StatusMaintenance, false))

		err := u.TransitionTo(StatusOccupied, false)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))
		assert.Equal(t, StatusMaintenance, u.Status)
	})

	t.Run("cleaning cannot jump to occupied", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.TransitionTo(StatusCleaning, false))

		err := u.TransitionTo(StatusOccupied, false)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))
	})

	t.Run("self transition is rejected", func(t *testing.T) {
		u := createTestUnit(t)

		err := u.TransitionTo(StatusAvailable, false)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		u := createTestUnit(t)

		err := u.TransitionTo(Status("demolished"), false)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_STATUS"))
	})

	t.Run("failed transition leaves no state change", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.Occupy("booking-1", nil))
		version := u.GetVersion()

		err := u.TransitionTo(StatusAvailable, false)

		require.Error(t, err)
		assert.Equal(t, StatusOccupied, u.Status)
		assert.Equal(t, version, u.GetVersion())
		assert.Equal(t, "booking-1", u.OccupantRef)
	})
}

func TestUnitStatus_AdministrativeStates(t *testing.T) {
	t.Run("reachable from any non-occupied state", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.TransitionTo(StatusCleaning, false))

		require.NoError(t, u.TransitionTo(StatusOutOfOrder, false))
		assert.Equal(t, StatusOutOfOrder, u.Status)
	})

	t.Run("mid-occupancy requires override", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.Occupy("booking-1", nil))

		err := u.TransitionTo(StatusMaintenance, false)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))

		require.NoError(t, u.TransitionTo(StatusMaintenance, true))
		assert.Equal(t, StatusMaintenance, u.Status)
		assert.Empty(t, u.OccupantRef)
	})

	t.Run("returns to available only", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.TransitionTo(StatusMaintenance, false))

		require.NoError(t, u.TransitionTo(StatusAvailable, false))
		assert.Equal(t, StatusAvailable, u.Status)
	})
}

func TestUnitStatus_AllowsAssignment(t *testing.T) {
	t.Run("available unit accepts any booking", func(t *testing.T) {
		u := createTestUnit(t)

		assert.True(t, u.AllowsAssignment("booking-1"))
	})

	t.Run("reserved unit accepts only its booking", func(t *testing.T) {
		u := createTestUnit(t)
		require.NoError(t, u.ReserveFor("booking-1"))

		assert.True(t, u.AllowsAssignment("booking-1"))
		assert.False(t, u.AllowsAssignment("booking-2"))
		assert.False(t, u.AllowsAssignment(""))
	})

	t.Run("blocked states accept nothing", func(t *testing.T) {
		for _, status := range []Status{StatusOccupied, StatusMaintenance, StatusCleaning, StatusOutOfOrder} {
			u := createTestUnit(t)
			u.Status = status

			assert.False(t, u.AllowsAssignment("booking-1"), "status %s", status)
		}
	})
}

func TestUnitStatus_Events(t *testing.T) {
	u := createTestUnit(t)

	require.NoError(t, u.Occupy("booking-1", nil))

	events := u.GetDomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*UnitStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusAvailable, changed.FromStatus)
	assert.Equal(t, StatusOccupied, changed.ToStatus)
}
