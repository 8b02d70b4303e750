package ifta

import (
	"math"
	"sort"

	"haul/internal/domain"
)

// Detector compares purchased-fuel gallons against trip-accounted gallons per
// jurisdiction. Trip gallons are apportioned with the same allocation rule as
// miles, so a cross-jurisdiction trip's fuel is split the same way its miles
// are. Purely a read/compare operation; no side effects.
type Detector struct {
	allocator MileageAllocator
	config    Config
}

// NewDetector creates a Detector using the given allocation policy.
func NewDetector(allocator MileageAllocator, config Config) *Detector {
	return &Detector{
		allocator: allocator,
		config:    config,
	}
}

// Detect returns one Discrepancy per jurisdiction where purchases and trips
// disagree beyond the tolerance. Output is ordered by jurisdiction code; it
// carries no severity ranking, callers may re-sort by magnitude.
func (d *Detector) Detect(trips []*domain.TripRecord, fuel []*domain.FuelPurchaseEntry) []domain.Discrepancy {
	tripGallons := make(map[string]float64)
	for _, trip := range trips {
		for _, share := range d.allocator.Allocate(trip) {
			tripGallons[share.Jurisdiction] += share.Gallons
		}
	}

	purchaseGallons := make(map[string]float64)
	for _, entry := range fuel {
		purchaseGallons[entry.Jurisdiction] += entry.Gallons
	}

	// Every jurisdiction appearing in either set is examined.
	jurisdictions := make(map[string]struct{})
	for j := range tripGallons {
		jurisdictions[j] = struct{}{}
	}
	for j := range purchaseGallons {
		jurisdictions[j] = struct{}{}
	}

	var discrepancies []domain.Discrepancy
	for j := range jurisdictions {
		diff := purchaseGallons[j] - tripGallons[j]
		if math.Abs(diff) <= d.config.Tolerance {
			continue
		}
		discrepancies = append(discrepancies, domain.Discrepancy{
			Jurisdiction:    j,
			PurchaseGallons: purchaseGallons[j],
			TripGallons:     tripGallons[j],
			Gallons:         diff,
		})
	}

	sort.Slice(discrepancies, func(i, k int) bool {
		return discrepancies[i].Jurisdiction < discrepancies[k].Jurisdiction
	})

	return discrepancies
}

// SortByMagnitude orders discrepancies largest absolute gallon difference
// first, for callers that want the worst offenders on top.
func SortByMagnitude(discrepancies []domain.Discrepancy) {
	sort.Slice(discrepancies, func(i, k int) bool {
		return math.Abs(discrepancies[i].Gallons) > math.Abs(discrepancies[k].Gallons)
	})
}
