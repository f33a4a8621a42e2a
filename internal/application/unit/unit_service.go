package unit

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/shared"
	"github.com/stayops/backend/internal/domain/unit"
)

const (
	// DefaultContentionRetries bounds the optimistic-lock retry loop
	DefaultContentionRetries = 3
	retryBaseDelay           = 5 * time.Millisecond
)

// UnitService handles unit status reads and transitions
type UnitService struct {
	unitRepo       unit.UnitStatusRepository
	eventPublisher shared.EventPublisher
	maxRetries     int
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo unit.UnitStatusRepository) *UnitService {
	return &UnitService{
		unitRepo:   unitRepo,
		maxRetries: DefaultContentionRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UnitService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetStatus returns the operational state of a unit
func (s *UnitService) GetStatus(ctx context.Context, tenantID, unitID uuid.UUID) (*UnitStatusResponse, error) {
	u, err := s.unitRepo.FindByUnit(ctx, tenantID, unitID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownResource
		}
		return nil, err
	}
	response := ToUnitStatusResponse(u)
	return &response, nil
}

// ListByProperty returns the unit statuses of a property
func (s *UnitService) ListByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]UnitStatusResponse, error) {
	units, err := s.unitRepo.FindByProperty(ctx, tenantID, propertyID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]UnitStatusResponse, len(units))
	for i := range units {
		responses[i] = ToUnitStatusResponse(&units[i])
	}
	return responses, nil
}

// TransitionStatus moves a unit to a new state. The row is created in
// the available state on first use so that a new unit's initial
// transition does not need a separate registration call.
func (s *UnitService) TransitionStatus(ctx context.Context, tenantID, unitID uuid.UUID, req TransitionStatusRequest) (*UnitStatusResponse, error) {
	target := unit.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown unit status: "+req.Status)
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			s.backoff(ctx, attempt)
		}

		u, err := s.unitRepo.GetOrCreate(ctx, tenantID, req.PropertyID, unitID)
		if err != nil {
			return nil, err
		}

		if err := s.applyTransition(u, target, req); err != nil {
			return nil, err
		}
		if req.Notes != "" {
			u.Notes = req.Notes
		}

		if err := s.unitRepo.SaveWithLock(ctx, u); err != nil {
			if shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED") {
				continue
			}
			return nil, err
		}

		s.publishDomainEvents(ctx, u)

		response := ToUnitStatusResponse(u)
		return &response, nil
	}

	return nil, shared.ErrResourceContention
}

func (s *UnitService) applyTransition(u *unit.UnitStatus, target unit.Status, req TransitionStatusRequest) error {
	switch target {
	case unit.StatusOccupied:
		return u.Occupy(req.OccupantRef, req.EstimatedVacancy)
	case unit.StatusReserved:
		return u.ReserveFor(req.OccupantRef)
	default:
		return u.TransitionTo(target, req.Override)
	}
}

func (s *UnitService) publishDomainEvents(ctx context.Context, u *unit.UnitStatus) {
	if s.eventPublisher == nil {
		return
	}
	events := u.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	u.ClearDomainEvents()
}

func (s *UnitService) backoff(ctx context.Context, attempt int) {
	delay := time.Duration(attempt)*retryBaseDelay + time.Duration(rand.Intn(5))*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
