package service

import (
	"context"
	"log"
	"sort"
	"time"

	"haul/internal/domain"
	"haul/internal/ifta"
	"haul/internal/redis"
	"haul/internal/repository"
)

// ReconciliationService runs the IFTA aggregation and discrepancy detection
// passes. Both are pure arithmetic over a snapshot fetched once per
// invocation; nothing here writes to the data store.
type ReconciliationService struct {
	tripRepo   repository.TripRecordRepository
	fuelRepo   repository.FuelPurchaseRepository
	cacheStore redis.CacheStoreInterface
	aggregator *ifta.Aggregator
	detector   *ifta.Detector
	config     ifta.Config
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	tripRepo repository.TripRecordRepository,
	fuelRepo repository.FuelPurchaseRepository,
	cacheStore redis.CacheStoreInterface,
	allocator ifta.MileageAllocator,
	config ifta.Config,
) *ReconciliationService {
	return &ReconciliationService{
		tripRepo:   tripRepo,
		fuelRepo:   fuelRepo,
		cacheStore: cacheStore,
		aggregator: ifta.NewAggregator(allocator, config),
		detector:   ifta.NewDetector(allocator, config),
		config:     config,
	}
}

// ScopeRequest identifies one reconciliation scope: a user's quarter,
// optionally restricted to a single vehicle.
type ScopeRequest struct {
	UserID    string
	Quarter   domain.Quarter
	VehicleID string // empty = all vehicles
}

func (r ScopeRequest) validate() error {
	if r.UserID == "" {
		return ErrInvalidUserID
	}
	if r.Quarter.IsZero() {
		return domain.ErrInvalidQuarter
	}
	return nil
}

// Snapshot is the consistent input set for one reconciliation pass.
type Snapshot struct {
	Trips []*domain.TripRecord
	Fuel  []*domain.FuelPurchaseEntry
}

// Summary is the result of one aggregation pass over a scope.
type Summary struct {
	Quarter      domain.Quarter
	VehicleID    string
	Totals       []*domain.JurisdictionTotal // ordered by jurisdiction code
	TripCount    int
	FuelCount    int
	FleetMiles   float64
	FleetGallons float64
	FuelSpend    float64
	FleetEconomy float64
}

// FetchSnapshot reads all trips and fuel purchases for the scope in one pass.
func (s *ReconciliationService) FetchSnapshot(ctx context.Context, req ScopeRequest) (*Snapshot, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.ListForQuarter(ctx, req.UserID, req.Quarter, req.VehicleID)
	if err != nil {
		return nil, err
	}

	fuel, err := s.fuelRepo.ListForQuarter(ctx, req.UserID, req.Quarter, req.VehicleID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Trips: trips, Fuel: fuel}, nil
}

// Summarize aggregates the scope into per-jurisdiction totals. Results are
// served from the summary cache when present; a cache failure falls back to a
// full recompute rather than failing the request.
func (s *ReconciliationService) Summarize(ctx context.Context, req ScopeRequest) (*Summary, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetSummary(ctx, req.UserID, req.Quarter.String(), req.VehicleID)
		if err != nil {
			log.Printf("summary cache read failed: %v", err)
		} else if cached != nil {
			return summaryFromCache(req.Quarter, cached), nil
		}
	}

	snapshot, err := s.FetchSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := s.summarizeSnapshot(req, snapshot)

	if s.cacheStore != nil {
		if err := s.cacheStore.SetSummary(ctx, req.UserID, cacheFromSummary(summary)); err != nil {
			log.Printf("summary cache write failed: %v", err)
		}
	}

	return summary, nil
}

// SummarizeSnapshot aggregates an already-fetched snapshot, bypassing the
// cache. Used by the exporter so one fetch serves both summary and detail.
func (s *ReconciliationService) SummarizeSnapshot(req ScopeRequest, snapshot *Snapshot) *Summary {
	return s.summarizeSnapshot(req, snapshot)
}

func (s *ReconciliationService) summarizeSnapshot(req ScopeRequest, snapshot *Snapshot) *Summary {
	totals := s.aggregator.Aggregate(snapshot.Trips, snapshot.Fuel)

	ordered := make([]*domain.JurisdictionTotal, 0, len(totals))
	for _, t := range totals {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, k int) bool {
		return ordered[i].Jurisdiction < ordered[k].Jurisdiction
	})

	var fleetMiles, fleetGallons, fuelSpend float64
	for _, trip := range snapshot.Trips {
		fleetMiles += trip.Miles
	}
	for _, entry := range snapshot.Fuel {
		fleetGallons += entry.Gallons
		fuelSpend += entry.Amount
	}

	return &Summary{
		Quarter:      req.Quarter,
		VehicleID:    req.VehicleID,
		Totals:       ordered,
		TripCount:    len(snapshot.Trips),
		FuelCount:    len(snapshot.Fuel),
		FleetMiles:   fleetMiles,
		FleetGallons: fleetGallons,
		FuelSpend:    fuelSpend,
		FleetEconomy: ifta.FleetEconomy(fleetMiles, fleetGallons, s.config.FallbackEconomy),
	}
}

// DetectDiscrepancies compares purchase-derived and trip-derived gallons per
// jurisdiction. Never cached: callers act on the result.
func (s *ReconciliationService) DetectDiscrepancies(ctx context.Context, req ScopeRequest) ([]domain.Discrepancy, error) {
	snapshot, err := s.FetchSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.detector.Detect(snapshot.Trips, snapshot.Fuel), nil
}

func summaryFromCache(quarter domain.Quarter, cached *redis.CachedSummary) *Summary {
	totals := make([]*domain.JurisdictionTotal, 0, len(cached.Totals))
	for _, t := range cached.Totals {
		totals = append(totals, &domain.JurisdictionTotal{
			Jurisdiction:   t.Jurisdiction,
			TotalMiles:     t.TotalMiles,
			TaxableMiles:   t.TaxableMiles,
			TaxPaidGallons: t.TaxPaidGallons,
			TaxableGallons: t.TaxableGallons,
		})
	}

	return &Summary{
		Quarter:      quarter,
		VehicleID:    cached.VehicleID,
		Totals:       totals,
		TripCount:    cached.TripCount,
		FuelCount:    cached.FuelCount,
		FleetMiles:   cached.FleetMiles,
		FleetGallons: cached.FleetGallons,
		FuelSpend:    cached.FuelSpend,
		FleetEconomy: cached.FleetEconomy,
	}
}

func cacheFromSummary(summary *Summary) *redis.CachedSummary {
	totals := make([]redis.CachedJurisdictionTotal, 0, len(summary.Totals))
	for _, t := range summary.Totals {
		totals = append(totals, redis.CachedJurisdictionTotal{
			Jurisdiction:      t.Jurisdiction,
			TotalMiles:        t.TotalMiles,
			TaxableMiles:      t.TaxableMiles,
			TaxPaidGallons:    t.TaxPaidGallons,
			TaxableGallons:    t.TaxableGallons,
			NetTaxableGallons: t.NetTaxableGallons(),
		})
	}

	return &redis.CachedSummary{
		Quarter:      summary.Quarter.String(),
		VehicleID:    summary.VehicleID,
		Totals:       totals,
		TripCount:    summary.TripCount,
		FuelCount:    summary.FuelCount,
		FleetMiles:   summary.FleetMiles,
		FleetGallons: summary.FleetGallons,
		FuelSpend:    summary.FuelSpend,
		FleetEconomy: summary.FleetEconomy,
		ComputedAt:   time.Now(),
	}
}
