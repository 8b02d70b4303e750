package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"haul/internal/domain"
	"haul/internal/redis"
	"haul/internal/repository"
)

// syncLockTTL bounds how long a synthesis run can hold the per-scope lock.
const syncLockTTL = 30 * time.Second

// SynthesisService creates corrective fuel-only trip records for positive
// discrepancies. It is the only component of the engine with a write effect
// and runs only when explicitly invoked.
type SynthesisService struct {
	tripRepo        repository.TripRecordRepository
	fuelRepo        repository.FuelPurchaseRepository
	quarterLockRepo repository.QuarterLockRepository
	lockStore       redis.LockStoreInterface
	cacheStore      redis.CacheStoreInterface
	reconciliation  *ReconciliationService
	notifications   *NotificationService
}

// NewSynthesisService creates a new SynthesisService.
func NewSynthesisService(
	tripRepo repository.TripRecordRepository,
	fuelRepo repository.FuelPurchaseRepository,
	quarterLockRepo repository.QuarterLockRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	reconciliation *ReconciliationService,
	notifications *NotificationService,
) *SynthesisService {
	return &SynthesisService{
		tripRepo:        tripRepo,
		fuelRepo:        fuelRepo,
		quarterLockRepo: quarterLockRepo,
		lockStore:       lockStore,
		cacheStore:      cacheStore,
		reconciliation:  reconciliation,
		notifications:   notifications,
	}
}

// CorrectionFailure describes one jurisdiction whose corrective record could
// not be created.
type CorrectionFailure struct {
	Jurisdiction string
	Message      string
}

// SynthesizeResponse contains the outcome of one synthesis run.
type SynthesizeResponse struct {
	Created  []*domain.TripRecord
	Failures []CorrectionFailure
}

// Synthesize detects discrepancies in the scope and creates one zero-mile
// fuel-only trip record for each positive one.
//
// Each jurisdiction is attempted independently: a failed create is recorded
// and does not abort the others, and nothing already created is rolled back.
// Negative discrepancies are never corrected here; reducing recorded trip
// gallons without user confirmation would silently alter historical data.
// Callers must re-aggregate afterwards; there is no incremental update path.
func (s *SynthesisService) Synthesize(ctx context.Context, req ScopeRequest) (*SynthesizeResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Writes are at-least-once, so hold the per-scope lock for the whole
	// run to keep concurrent invocations from doubling up corrections.
	acquired, err := s.lockStore.AcquireSyncLock(ctx, req.UserID, req.Quarter.String(), syncLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := s.lockStore.ReleaseSyncLock(ctx, req.UserID, req.Quarter.String()); err != nil {
			log.Printf("failed to release sync lock for %s/%s: %v", req.UserID, req.Quarter, err)
		}
	}()

	locked, err := s.quarterLockRepo.IsLocked(ctx, req.UserID, req.Quarter)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, ErrQuarterLocked
	}

	discrepancies, err := s.reconciliation.DetectDiscrepancies(ctx, req)
	if err != nil {
		return nil, err
	}

	response := &SynthesizeResponse{}
	for _, d := range discrepancies {
		if d.Gallons <= 0 {
			// Surfaced for manual review only.
			continue
		}

		trip := s.buildCorrection(ctx, req, d)
		if err := s.tripRepo.Create(ctx, trip); err != nil {
			response.Failures = append(response.Failures, CorrectionFailure{
				Jurisdiction: d.Jurisdiction,
				Message:      err.Error(),
			})
			continue
		}
		response.Created = append(response.Created, trip)
	}

	if len(response.Created) > 0 && s.cacheStore != nil {
		if err := s.cacheStore.InvalidateSummaries(ctx, req.UserID, req.Quarter.String()); err != nil {
			log.Printf("failed to invalidate summary cache for %s/%s: %v", req.UserID, req.Quarter, err)
		}
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyCorrectionsCreated(ctx, req.UserID, req.Quarter,
			len(response.Created), len(response.Failures))
	}

	return response, nil
}

// buildCorrection assembles one corrective fuel-only record for a positive
// discrepancy.
func (s *SynthesisService) buildCorrection(ctx context.Context, req ScopeRequest, d domain.Discrepancy) *domain.TripRecord {
	midpoint := req.Quarter.Midpoint()

	return &domain.TripRecord{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		Quarter:           req.Quarter,
		VehicleID:         s.inferVehicle(ctx, req, d.Jurisdiction),
		StartDate:         midpoint,
		EndDate:           midpoint,
		StartJurisdiction: d.Jurisdiction,
		EndJurisdiction:   d.Jurisdiction,
		Miles:             0,
		Gallons:           d.Gallons,
		Origin:            domain.TripOriginFuelOnly,
		Note: fmt.Sprintf("Auto-generated fuel-only record: %.3f gal purchased in %s not accounted for by trips",
			d.Gallons, d.Jurisdiction),
	}
}

// inferVehicle attributes a correction to the vehicle of the most recent fuel
// purchase in the jurisdiction. Best effort: any failure or absence yields
// the explicit unknown-vehicle sentinel, never a fabricated identifier.
func (s *SynthesisService) inferVehicle(ctx context.Context, req ScopeRequest, jurisdiction string) string {
	if req.VehicleID != "" {
		return req.VehicleID
	}

	latest, err := s.fuelRepo.LatestInJurisdiction(ctx, req.UserID, req.Quarter, jurisdiction)
	if err != nil || latest == nil {
		return domain.UnknownVehicleID
	}

	return latest.VehicleID
}
