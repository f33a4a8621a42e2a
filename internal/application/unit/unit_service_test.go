package unit

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/domain/unit"
)

type memUnitRepo struct {
	mu    sync.Mutex
	units map[uuid.UUID]unit.UnitStatus
}

func newMemUnitRepo() *memUnitRepo {
	return &memUnitRepo{units: make(map[uuid.UUID]unit.UnitStatus)}
}

func (r *memUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*unit.UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.units {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUnitRepo) FindByUnit(_ context.Context, tenantID, unitID uuid.UUID) (*unit.UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[unitID]
	if !ok || u.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *memUnitRepo) FindByProperty(_ context.Context, tenantID, propertyID uuid.UUID, _ shared.Filter) ([]unit.UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []unit.UnitStatus
	for _, u := range r.units {
		if u.TenantID == tenantID && u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUnitRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status unit.Status, _ shared.Filter) ([]unit.UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []unit.UnitStatus
	for _, u := range r.units {
		if u.TenantID == tenantID && u.Status == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUnitRepo) Save(_ context.Context, u *unit.UnitStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[u.UnitID] = *u
	return nil
}

func (r *memUnitRepo) SaveWithLock(_ context.Context, u *unit.UnitStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.units[u.UnitID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.GetVersion() != u.GetVersion()-1 {
		return shared.ErrOptimisticLock
	}
	r.units[u.UnitID] = *u
	return nil
}

func (r *memUnitRepo) GetOrCreate(_ context.Context, tenantID, propertyID, unitID uuid.UUID) (*unit.UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.units[unitID]; ok {
		copied := u
		return &copied, nil
	}
	created, err := unit.NewUnitStatus(tenantID, propertyID, unitID)
	if err != nil {
		return nil, err
	}
	r.units[unitID] = *created
	copied := *created
	return &copied, nil
}

func TestUnitService_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()
	unitID := uuid.New()

	t.Run("first transition creates the row", func(t *testing.T) {
		svc := NewUnitService(newMemUnitRepo())

		resp, err := svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID:  propertyID,
			Status:      "occupied",
			OccupantRef: "booking-1",
		})

		require.NoError(t, err)
		assert.Equal(t, unit.StatusOccupied, resp.Status)
		assert.Equal(t, "booking-1", resp.OccupantRef)
		assert.NotNil(t, resp.OccupiedAt)
	})

	t.Run("illegal transition surfaces INVALID_TRANSITION", func(t *testing.T) {
		repo := newMemUnitRepo()
		svc := NewUnitService(repo)

		_, err := svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID: propertyID,
			Status:     "maintenance",
		})
		require.NoError(t, err)

		_, err = svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID:  propertyID,
			Status:      "occupied",
			OccupantRef: "booking-1",
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_TRANSITION"))

		status, err := svc.GetStatus(ctx, tenantID, unitID)
		require.NoError(t, err)
		assert.Equal(t, unit.StatusMaintenance, status.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc := NewUnitService(newMemUnitRepo())

		_, err := svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID: propertyID,
			Status:     "demolished",
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_STATUS"))
	})

	t.Run("override permits mid-occupancy admin transition", func(t *testing.T) {
		repo := newMemUnitRepo()
		svc := NewUnitService(repo)

		_, err := svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID:  propertyID,
			Status:      "occupied",
			OccupantRef: "booking-1",
		})
		require.NoError(t, err)

		_, err = svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID: propertyID,
			Status:     "out_of_order",
		})
		require.Error(t, err)

		resp, err := svc.TransitionStatus(ctx, tenantID, unitID, TransitionStatusRequest{
			PropertyID: propertyID,
			Status:     "out_of_order",
			Override:   true,
			Notes:      "burst pipe",
		})

		require.NoError(t, err)
		assert.Equal(t, unit.StatusOutOfOrder, resp.Status)
		assert.Equal(t, "burst pipe", resp.Notes)
	})
}

func TestUnitService_GetStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	svc := NewUnitService(newMemUnitRepo())

	_, err := svc.GetStatus(ctx, tenantID, uuid.New())

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, "UNKNOWN_RESOURCE"))
}
