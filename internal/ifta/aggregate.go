package ifta

import "haul/internal/domain"

// Aggregator folds trip records and fuel purchases into per-jurisdiction
// totals. It is a pure function of its inputs: no side effects, recomputed in
// full on every invocation.
type Aggregator struct {
	allocator MileageAllocator
	config    Config
}

// NewAggregator creates an Aggregator using the given allocation policy.
func NewAggregator(allocator MileageAllocator, config Config) *Aggregator {
	return &Aggregator{
		allocator: allocator,
		config:    config,
	}
}

// Aggregate produces a mapping from jurisdiction code to JurisdictionTotal
// for one quarter/vehicle scope.
//
// Every jurisdiction appearing on a trip endpoint or a fuel purchase gets an
// entry, even with zero activity otherwise. Trips missing a jurisdiction code
// are skipped for jurisdiction buckets but still counted toward the fleet
// totals that drive the economy estimate.
func (a *Aggregator) Aggregate(trips []*domain.TripRecord, fuel []*domain.FuelPurchaseEntry) map[string]*domain.JurisdictionTotal {
	totals := make(map[string]*domain.JurisdictionTotal)

	bucket := func(jurisdiction string) *domain.JurisdictionTotal {
		t, ok := totals[jurisdiction]
		if !ok {
			t = &domain.JurisdictionTotal{Jurisdiction: jurisdiction}
			totals[jurisdiction] = t
		}
		return t
	}

	// Register every jurisdiction touched by a trip endpoint.
	for _, trip := range trips {
		if trip.StartJurisdiction != "" {
			bucket(trip.StartJurisdiction)
		}
		if trip.EndJurisdiction != "" {
			bucket(trip.EndJurisdiction)
		}
	}

	var fleetMiles float64
	for _, trip := range trips {
		fleetMiles += trip.Miles
		for _, share := range a.allocator.Allocate(trip) {
			t := bucket(share.Jurisdiction)
			t.TotalMiles += share.Miles
			t.TaxableMiles += share.Miles
		}
	}

	var fleetGallons float64
	for _, entry := range fuel {
		bucket(entry.Jurisdiction).TaxPaidGallons += entry.Gallons
		fleetGallons += entry.Gallons
	}

	// Estimate taxable gallons from the fleet-average economy.
	economy := FleetEconomy(fleetMiles, fleetGallons, a.config.FallbackEconomy)
	for _, t := range totals {
		t.TaxableGallons = t.TaxableMiles / economy
	}

	return totals
}

// FleetEconomy computes the fleet-average fuel economy in miles per gallon.
// When either total is zero the fallback economy is returned to avoid a
// division by zero downstream.
func FleetEconomy(totalMiles, totalGallons, fallback float64) float64 {
	if totalMiles == 0 || totalGallons == 0 {
		return fallback
	}
	return totalMiles / totalGallons
}
