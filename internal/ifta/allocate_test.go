package ifta

import (
	"testing"

	"haul/internal/domain"
)

func TestEvenSplit_SameJurisdiction(t *testing.T) {
	t.Parallel()

	allocator := NewEvenSplitAllocator()
	trip := &domain.TripRecord{
		StartJurisdiction: "CA",
		EndJurisdiction:   "CA",
		Miles:             100,
		Gallons:           10,
	}

	shares := allocator.Allocate(trip)
	if len(shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(shares))
	}
	if shares[0].Jurisdiction != "CA" {
		t.Errorf("expected jurisdiction CA, got %s", shares[0].Jurisdiction)
	}
	if shares[0].Miles != 100 {
		t.Errorf("expected 100 miles, got %f", shares[0].Miles)
	}
	if shares[0].Gallons != 10 {
		t.Errorf("expected 10 gallons, got %f", shares[0].Gallons)
	}
}

func TestEvenSplit_CrossJurisdiction(t *testing.T) {
	t.Parallel()

	allocator := NewEvenSplitAllocator()
	trip := &domain.TripRecord{
		StartJurisdiction: "CA",
		EndJurisdiction:   "NV",
		Miles:             200,
		Gallons:           20,
	}

	shares := allocator.Allocate(trip)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}

	var miles, gallons float64
	for _, s := range shares {
		if s.Miles != 100 {
			t.Errorf("expected each half to get 100 miles, %s got %f", s.Jurisdiction, s.Miles)
		}
		if s.Gallons != 10 {
			t.Errorf("expected each half to get 10 gallons, %s got %f", s.Jurisdiction, s.Gallons)
		}
		miles += s.Miles
		gallons += s.Gallons
	}

	// The halves must sum back to the original values.
	if miles != trip.Miles {
		t.Errorf("shares sum to %f miles, trip has %f", miles, trip.Miles)
	}
	if gallons != trip.Gallons {
		t.Errorf("shares sum to %f gallons, trip has %f", gallons, trip.Gallons)
	}
}

func TestEvenSplit_MissingJurisdiction(t *testing.T) {
	t.Parallel()

	allocator := NewEvenSplitAllocator()

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"missing start", "", "NV"},
		{"missing end", "CA", ""},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			trip := &domain.TripRecord{
				StartJurisdiction: tc.start,
				EndJurisdiction:   tc.end,
				Miles:             50,
				Gallons:           5,
			}
			if shares := allocator.Allocate(trip); len(shares) != 0 {
				t.Errorf("expected no shares for trip with missing jurisdiction, got %d", len(shares))
			}
		})
	}
}
