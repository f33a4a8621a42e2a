package availability

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/backend/internal/domain/availability"
	"github.com/stayops/backend/internal/domain/shared"
)

const (
	// DefaultContentionRetries bounds the optimistic-lock retry loop
	DefaultContentionRetries = 3
	// retryBaseDelay is the base for the jittered backoff between attempts
	retryBaseDelay = 5 * time.Millisecond
)

// AvailabilityService handles the movement write path and availability reads.
//
// Every mutation follows the same discipline: load the snapshot, apply the
// domain method, save with an optimistic-lock version check. On a version
// conflict the whole sequence is retried against freshly loaded state, so
// the authorizing check always runs against the row that is actually
// written. After the retry budget is exhausted the contention is surfaced
// to the caller.
type AvailabilityService struct {
	availabilityRepo availability.ResourceAvailabilityRepository
	movementRepo     availability.MovementRepository
	eventPublisher   shared.EventPublisher
	maxRetries       int
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	availabilityRepo availability.ResourceAvailabilityRepository,
	movementRepo availability.MovementRepository,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		movementRepo:     movementRepo,
		maxRetries:       DefaultContentionRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AvailabilityService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMaxRetries overrides the contention retry budget
func (s *AvailabilityService) SetMaxRetries(n int) {
	if n > 0 {
		s.maxRetries = n
	}
}

// RecordMovement appends a ledger movement and atomically updates the
// availability snapshot. `in` and `adjustment` movements create the
// snapshot row on first use; consuming movements against an unknown
// resource fail with UNKNOWN_RESOURCE.
func (s *AvailabilityService) RecordMovement(ctx context.Context, tenantID uuid.UUID, req RecordMovementRequest) (*RecordMovementResult, error) {
	movType := availability.MovementType(req.Type)
	if !movType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type: "+req.Type)
	}

	ref := availability.Reference{Type: req.ReferenceType, ID: req.ReferenceID}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			s.backoff(ctx, attempt)
		}

		row, err := s.loadFor(ctx, tenantID, movType, req)
		if err != nil {
			return nil, err
		}

		mv, err := s.applyMovement(row, movType, req, ref)
		if err != nil {
			return nil, err
		}

		if err := s.availabilityRepo.SaveWithLock(ctx, row); err != nil {
			if shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED") {
				continue
			}
			return nil, err
		}

		// Ledger append after the snapshot commit. A failed append is an
		// audit gap, not a reason to fail the committed mutation.
		_ = s.movementRepo.Create(ctx, mv)

		s.publishDomainEvents(ctx, row)

		return &RecordMovementResult{
			Movement:     ToMovementResponse(mv),
			Availability: ToAvailabilityResponse(row),
		}, nil
	}

	return nil, shared.ErrResourceContention
}

// GetAvailability returns the snapshot for a resource
func (s *AvailabilityService) GetAvailability(ctx context.Context, tenantID, resourceID uuid.UUID) (*AvailabilityResponse, error) {
	row, err := s.availabilityRepo.FindByResource(ctx, tenantID, resourceID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	response := ToAvailabilityResponse(row)
	return &response, nil
}

// List returns a tenant's availability snapshots
func (s *AvailabilityService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[AvailabilityResponse], error) {
	rows, err := s.availabilityRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.availabilityRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AvailabilityResponse, len(rows))
	for i := range rows {
		responses[i] = ToAvailabilityResponse(&rows[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SetThresholds updates the alert thresholds for a resource, creating
// the snapshot row when it does not exist yet.
func (s *AvailabilityService) SetThresholds(ctx context.Context, tenantID, resourceID uuid.UUID, req SetThresholdsRequest) (*AvailabilityResponse, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			s.backoff(ctx, attempt)
		}

		row, err := s.availabilityRepo.GetOrCreate(ctx, tenantID, req.PropertyID, resourceID)
		if err != nil {
			return nil, err
		}

		if err := row.SetThresholds(req.MinimumThreshold, req.MaximumCapacity); err != nil {
			return nil, err
		}

		if err := s.availabilityRepo.SaveWithLock(ctx, row); err != nil {
			if shared.IsCode(err, "OPTIMISTIC_LOCK_FAILED") {
				continue
			}
			return nil, err
		}

		s.publishDomainEvents(ctx, row)

		response := ToAvailabilityResponse(row)
		return &response, nil
	}

	return nil, shared.ErrResourceContention
}

// ListMovements returns the ledger for a resource, newest first
func (s *AvailabilityService) ListMovements(ctx context.Context, tenantID, resourceID uuid.UUID, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "recorded_at"
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	movements, err := s.movementRepo.FindByResource(ctx, tenantID, resourceID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountByResource(ctx, tenantID, resourceID)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToMovementResponses(movements), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// loadFor loads the snapshot row for a movement. Inbound movements may
// create the row; consuming movements require it to exist.
func (s *AvailabilityService) loadFor(ctx context.Context, tenantID uuid.UUID, movType availability.MovementType, req RecordMovementRequest) (*availability.ResourceAvailability, error) {
	switch movType {
	case availability.MovementTypeIn, availability.MovementTypeAdjustment:
		return s.availabilityRepo.GetOrCreate(ctx, tenantID, req.PropertyID, req.ResourceID)
	default:
		row, err := s.availabilityRepo.FindByResource(ctx, tenantID, req.ResourceID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		return row, nil
	}
}

func (s *AvailabilityService) applyMovement(row *availability.ResourceAvailability, movType availability.MovementType, req RecordMovementRequest, ref availability.Reference) (*availability.Movement, error) {
	switch movType {
	case availability.MovementTypeIn:
		return row.StockIn(req.Quantity, req.Reason, ref, req.ActorID)
	case availability.MovementTypeOut:
		return row.StockOut(req.Quantity, req.Reason, ref, req.ActorID)
	case availability.MovementTypeReservation:
		return row.Reserve(req.Quantity, req.Reason, ref, req.ActorID)
	case availability.MovementTypeRelease:
		return row.Release(req.Quantity, req.Reason, ref, req.ActorID)
	case availability.MovementTypeAdjustment:
		return row.Adjust(req.Quantity, req.Reason, ref, req.ActorID)
	}
	return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
}

func (s *AvailabilityService) publishDomainEvents(ctx context.Context, row *availability.ResourceAvailability) {
	if s.eventPublisher == nil {
		return
	}
	events := row.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	row.ClearDomainEvents()
}

// backoff sleeps with jitter before a retry, respecting cancellation
func (s *AvailabilityService) backoff(ctx context.Context, attempt int) {
	delay := time.Duration(attempt)*retryBaseDelay + time.Duration(rand.Intn(5))*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, shared.ErrNotFound) || shared.IsCode(err, "NOT_FOUND") {
		return shared.ErrUnknownResource
	}
	return err
}
