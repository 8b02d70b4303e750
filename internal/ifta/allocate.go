package ifta

import "haul/internal/domain"

// Share is one jurisdiction's portion of a single trip's miles and gallons.
type Share struct {
	Jurisdiction string
	Miles        float64
	Gallons      float64
}

// MileageAllocator is the policy for assigning a trip's miles and consumed
// gallons to jurisdictions. The shares returned for a trip always sum to the
// trip's totals; a trip missing either endpoint code yields no shares.
type MileageAllocator interface {
	Allocate(trip *domain.TripRecord) []Share
}

// EvenSplitAllocator assigns all of a trip to its jurisdiction when start and
// end match, and splits exactly in half when they differ.
//
// The 50/50 split is a documented simplification, not a distance-weighted
// apportionment. A more precise policy (e.g. proportional to recorded state
// crossings) can replace it behind the same interface.
type EvenSplitAllocator struct{}

// NewEvenSplitAllocator creates the default allocation policy.
func NewEvenSplitAllocator() EvenSplitAllocator {
	return EvenSplitAllocator{}
}

// Allocate implements MileageAllocator.
func (EvenSplitAllocator) Allocate(trip *domain.TripRecord) []Share {
	if !trip.HasJurisdictions() {
		// Unknown endpoint: the trip still counts toward fleet totals but
		// contributes nothing to any jurisdiction bucket.
		return nil
	}

	if trip.StartJurisdiction == trip.EndJurisdiction {
		return []Share{{
			Jurisdiction: trip.StartJurisdiction,
			Miles:        trip.Miles,
			Gallons:      trip.Gallons,
		}}
	}

	return []Share{
		{
			Jurisdiction: trip.StartJurisdiction,
			Miles:        trip.Miles / 2,
			Gallons:      trip.Gallons / 2,
		},
		{
			Jurisdiction: trip.EndJurisdiction,
			Miles:        trip.Miles / 2,
			Gallons:      trip.Gallons / 2,
		},
	}
}

// Ensure EvenSplitAllocator implements MileageAllocator.
var _ MileageAllocator = EvenSplitAllocator{}
