package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"haul/internal/domain"
	"haul/internal/redis"
	"haul/internal/repository"
)

// TripService handles trip record entry operations. These feed the
// reconciliation engine; the engine itself only reads trip records except
// through the synthesizer.
type TripService struct {
	tripRepo        repository.TripRecordRepository
	quarterLockRepo repository.QuarterLockRepository
	cacheStore      redis.CacheStoreInterface
}

// NewTripService creates a new TripService.
func NewTripService(
	tripRepo repository.TripRecordRepository,
	quarterLockRepo repository.QuarterLockRepository,
	cacheStore redis.CacheStoreInterface,
) *TripService {
	return &TripService{
		tripRepo:        tripRepo,
		quarterLockRepo: quarterLockRepo,
		cacheStore:      cacheStore,
	}
}

// CreateTripRequest contains the parameters for creating a trip record.
type CreateTripRequest struct {
	UserID            string
	Quarter           domain.Quarter
	VehicleID         string
	DriverID          string
	StartDate         time.Time
	EndDate           time.Time
	StartJurisdiction string
	EndJurisdiction   string
	Miles             float64
	Gallons           float64
	FuelCost          float64
	Origin            domain.TripOrigin
	Note              string
}

// CreateTrip validates and persists a new trip record.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.TripRecord, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Quarter.IsZero() {
		return nil, domain.ErrInvalidQuarter
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.Miles < 0 {
		return nil, ErrInvalidMiles
	}
	if req.Gallons < 0 {
		return nil, ErrInvalidGallons
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDate
	}

	origin := req.Origin
	if origin == "" {
		origin = domain.TripOriginManual
	}
	switch origin {
	case domain.TripOriginManual, domain.TripOriginMileageImport, domain.TripOriginLoadImport:
	default:
		// FUEL_ONLY is reserved for the synthesizer.
		return nil, ErrInvalidOrigin
	}

	if err := s.ensureUnlocked(ctx, req.UserID, req.Quarter); err != nil {
		return nil, err
	}

	trip := &domain.TripRecord{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		Quarter:           req.Quarter,
		VehicleID:         req.VehicleID,
		DriverID:          req.DriverID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		StartJurisdiction: req.StartJurisdiction,
		EndJurisdiction:   req.EndJurisdiction,
		Miles:             req.Miles,
		Gallons:           req.Gallons,
		FuelCost:          req.FuelCost,
		Origin:            origin,
		Note:              req.Note,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, req.UserID, req.Quarter)

	return trip, nil
}

// ListTrips retrieves all trip records in a scope.
func (s *TripService) ListTrips(ctx context.Context, req ScopeRequest) ([]*domain.TripRecord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	return s.tripRepo.ListForQuarter(ctx, req.UserID, req.Quarter, req.VehicleID)
}

// DeleteTrip removes a trip record by explicit user action. Records in a
// locked quarter are immutable.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if tripID == "" {
		return ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	// Another tenant's record is indistinguishable from a missing one.
	if trip.UserID != userID {
		return repository.ErrNotFound
	}

	if err := s.ensureUnlocked(ctx, userID, trip.Quarter); err != nil {
		return err
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		return err
	}

	s.invalidateSummaries(ctx, userID, trip.Quarter)

	return nil
}

func (s *TripService) ensureUnlocked(ctx context.Context, userID string, quarter domain.Quarter) error {
	locked, err := s.quarterLockRepo.IsLocked(ctx, userID, quarter)
	if err != nil {
		return err
	}
	if locked {
		return ErrQuarterLocked
	}
	return nil
}

func (s *TripService) invalidateSummaries(ctx context.Context, userID string, quarter domain.Quarter) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateSummaries(ctx, userID, quarter.String()); err != nil {
		log.Printf("failed to invalidate summary cache for %s/%s: %v", userID, quarter, err)
	}
}
