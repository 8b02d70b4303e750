package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"haul/internal/domain"
	"haul/internal/service"
)

// ──────────────────────────────────────────────
// 2. CORRECTION SYNTHESIS
// ──────────────────────────────────────────────

type synthesisEnv struct {
	tripRepo        *MockTripRecordRepository
	fuelRepo        *MockFuelPurchaseRepository
	quarterLockRepo *MockQuarterLockRepository
	lockStore       *MockLockStore
	cacheStore      *MockCacheStore
	synthesis       *service.SynthesisService
}

func newSynthesisEnv() *synthesisEnv {
	env := &synthesisEnv{
		tripRepo:        NewMockTripRecordRepository(),
		fuelRepo:        NewMockFuelPurchaseRepository(),
		quarterLockRepo: NewMockQuarterLockRepository(),
		lockStore:       NewMockLockStore(),
		cacheStore:      NewMockCacheStore(),
	}
	reconciliation := newReconciliation(env.tripRepo, env.fuelRepo, env.cacheStore)
	env.synthesis = service.NewSynthesisService(
		env.tripRepo, env.fuelRepo, env.quarterLockRepo,
		env.lockStore, env.cacheStore,
		reconciliation, service.NewNotificationService(),
	)
	return env
}

func (e *synthesisEnv) addPurchase(quarter domain.Quarter, jurisdiction, vehicleID string, gallons float64, day int) {
	e.fuelRepo.AddEntry(&domain.FuelPurchaseEntry{
		ID:           "fuel-" + jurisdiction + "-" + vehicleID,
		UserID:       "user-1",
		VehicleID:    vehicleID,
		Quarter:      quarter,
		Date:         quarter.Start().Add(time.Duration(day) * 24 * time.Hour),
		Jurisdiction: jurisdiction,
		Gallons:      gallons,
		Amount:       gallons * 4,
	})
}

func TestSynthesize_CreatesFuelOnlyCorrectionForUnmatchedPurchase(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q1")
	env.addPurchase(quarter, "NM", "truck-7", 42.5, 3)

	resp, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Created) != 1 || len(resp.Failures) != 0 {
		t.Fatalf("expected 1 created / 0 failed, got %d/%d", len(resp.Created), len(resp.Failures))
	}

	correction := resp.Created[0]
	if correction.Origin != domain.TripOriginFuelOnly {
		t.Errorf("expected FUEL_ONLY origin, got %s", correction.Origin)
	}
	if correction.Miles != 0 {
		t.Errorf("expected zero miles, got %f", correction.Miles)
	}
	if correction.Gallons != 42.5 {
		t.Errorf("expected 42.5 gallons, got %f", correction.Gallons)
	}
	if correction.StartJurisdiction != "NM" || correction.EndJurisdiction != "NM" {
		t.Errorf("expected NM on both ends, got %s/%s", correction.StartJurisdiction, correction.EndJurisdiction)
	}
	if !correction.StartDate.Equal(quarter.Midpoint()) || !correction.EndDate.Equal(correction.StartDate) {
		t.Errorf("expected zero-duration trip at quarter midpoint, got %v..%v", correction.StartDate, correction.EndDate)
	}
	// Vehicle attributed from the purchase that caused the discrepancy.
	if correction.VehicleID != "truck-7" {
		t.Errorf("expected vehicle truck-7, got %s", correction.VehicleID)
	}
	if !strings.Contains(correction.Note, "42.500 gal") || !strings.Contains(correction.Note, "NM") {
		t.Errorf("expected explanatory note, got %q", correction.Note)
	}

	if env.cacheStore.InvalidateCallCount != 1 {
		t.Errorf("expected summary cache invalidation, got %d calls", env.cacheStore.InvalidateCallCount)
	}
	if env.lockStore.IsHeld("user-1", quarter.String()) {
		t.Error("sync lock should be released after the run")
	}
}

func TestSynthesize_RerunCreatesNothingNew(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q1")
	env.addPurchase(quarter, "UT", "truck-1", 60, 10)
	scope := service.ScopeRequest{UserID: "user-1", Quarter: quarter}
	ctx := context.Background()

	first, err := env.synthesis.Synthesize(ctx, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Created) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(first.Created))
	}

	// The correction now accounts for the purchase, so a second run is a
	// no-op rather than a duplicate.
	second, err := env.synthesis.Synthesize(ctx, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Created) != 0 {
		t.Errorf("expected idempotent rerun, got %d new corrections", len(second.Created))
	}
	if got := len(env.tripRepo.TripsByOrigin(domain.TripOriginFuelOnly)); got != 1 {
		t.Errorf("expected exactly 1 synthesized trip, got %d", got)
	}
}

func TestSynthesize_NegativeDiscrepancyLeftForManualReview(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q2")

	// Trips claim more gallons than were purchased in CO.
	env.tripRepo.AddTrip(&domain.TripRecord{
		ID:                "trip-1",
		UserID:            "user-1",
		Quarter:           quarter,
		VehicleID:         "truck-1",
		StartJurisdiction: "CO",
		EndJurisdiction:   "CO",
		Miles:             300,
		Gallons:           50,
		Origin:            domain.TripOriginLoadImport,
	})
	env.addPurchase(quarter, "CO", "truck-1", 20, 5)

	resp, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Created) != 0 || len(resp.Failures) != 0 {
		t.Errorf("expected nothing created for negative discrepancy, got %d/%d",
			len(resp.Created), len(resp.Failures))
	}
}

func TestSynthesize_FailedJurisdictionDoesNotAbortOthers(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q3")
	env.addPurchase(quarter, "ID", "truck-1", 30, 2)
	env.addPurchase(quarter, "MT", "truck-1", 40, 4)
	env.addPurchase(quarter, "WY", "truck-1", 50, 6)
	env.tripRepo.CreateErrorFor = map[string]error{
		"MT": errors.New("pq: connection reset"),
	}

	resp, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if err != nil {
		t.Fatalf("expected partial success, got error: %v", err)
	}

	if len(resp.Created) != 2 {
		t.Errorf("expected 2 corrections despite MT failure, got %d", len(resp.Created))
	}
	if len(resp.Failures) != 1 || resp.Failures[0].Jurisdiction != "MT" {
		t.Fatalf("expected MT failure recorded, got %+v", resp.Failures)
	}
	if resp.Failures[0].Message == "" {
		t.Error("expected failure message")
	}
}

func TestSynthesize_ConcurrentRunRejected(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q1")
	env.addPurchase(quarter, "NV", "truck-1", 25, 1)
	env.lockStore.HoldLock("user-1", quarter.String())

	_, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if !errors.Is(err, service.ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	if env.tripRepo.TripCount() != 0 {
		t.Error("no corrections should be written while another run holds the lock")
	}
}

func TestSynthesize_LockedQuarterRejected(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q4")
	env.addPurchase(quarter, "KS", "truck-1", 35, 8)
	ctx := context.Background()

	if err := env.quarterLockRepo.Lock(ctx, "user-1", quarter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := env.synthesis.Synthesize(ctx, service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if !errors.Is(err, service.ErrQuarterLocked) {
		t.Fatalf("expected ErrQuarterLocked, got %v", err)
	}
	if env.tripRepo.TripCount() != 0 {
		t.Error("locked quarter must not receive corrections")
	}
	if env.lockStore.IsHeld("user-1", quarter.String()) {
		t.Error("sync lock should be released on rejection")
	}
}

func TestSynthesize_UnknownVehicleWhenNoPurchaseAttributable(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q1")
	env.addPurchase(quarter, "OK", "truck-3", 15, 7)
	// Vehicle lookup during build fails; the sentinel is used instead of a
	// fabricated identifier.
	env.fuelRepo.LatestError = errors.New("pq: read timeout")

	resp, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:  "user-1",
		Quarter: quarter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Created) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(resp.Created))
	}
	if resp.Created[0].VehicleID != domain.UnknownVehicleID {
		t.Errorf("expected %s vehicle, got %s", domain.UnknownVehicleID, resp.Created[0].VehicleID)
	}
}

func TestSynthesize_VehicleScopeAttributesToScopedVehicle(t *testing.T) {
	t.Parallel()

	env := newSynthesisEnv()
	quarter := mustQuarter(t, "2024-Q2")
	env.addPurchase(quarter, "NE", "truck-9", 22, 12)

	resp, err := env.synthesis.Synthesize(context.Background(), service.ScopeRequest{
		UserID:    "user-1",
		Quarter:   quarter,
		VehicleID: "truck-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Created) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(resp.Created))
	}
	if resp.Created[0].VehicleID != "truck-9" {
		t.Errorf("expected scoped vehicle, got %s", resp.Created[0].VehicleID)
	}
}
