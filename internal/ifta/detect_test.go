package ifta

import (
	"math"
	"testing"

	"haul/internal/domain"
)

func newTestDetector() *Detector {
	return NewDetector(NewEvenSplitAllocator(), DefaultConfig())
}

func TestDetect_PositiveDiscrepancy(t *testing.T) {
	t.Parallel()

	trips := []*domain.TripRecord{
		{StartJurisdiction: "CA", EndJurisdiction: "CA", Miles: 100, Gallons: 10},
	}
	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "CA", Gallons: 15},
	}

	discrepancies := newTestDetector().Detect(trips, fuel)
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}

	d := discrepancies[0]
	if d.Jurisdiction != "CA" {
		t.Errorf("expected CA, got %s", d.Jurisdiction)
	}
	if math.Abs(d.Gallons-5) > 1e-9 {
		t.Errorf("expected +5 gallons, got %f", d.Gallons)
	}
	if d.PurchaseGallons != 15 || d.TripGallons != 10 {
		t.Errorf("unexpected components: purchases=%f trips=%f", d.PurchaseGallons, d.TripGallons)
	}
}

func TestDetect_NegativeDiscrepancy(t *testing.T) {
	t.Parallel()

	trips := []*domain.TripRecord{
		{StartJurisdiction: "NV", EndJurisdiction: "NV", Miles: 100, Gallons: 20},
	}
	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "NV", Gallons: 12},
	}

	discrepancies := newTestDetector().Detect(trips, fuel)
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	if discrepancies[0].Gallons >= 0 {
		t.Errorf("expected negative discrepancy, got %f", discrepancies[0].Gallons)
	}
}

func TestDetect_WithinTolerance(t *testing.T) {
	t.Parallel()

	trips := []*domain.TripRecord{
		{StartJurisdiction: "CA", EndJurisdiction: "CA", Miles: 100, Gallons: 10.0005},
	}
	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "CA", Gallons: 10},
	}

	if got := newTestDetector().Detect(trips, fuel); len(got) != 0 {
		t.Errorf("expected no discrepancies within tolerance, got %d", len(got))
	}
}

func TestDetect_SplitsTripGallonsLikeMiles(t *testing.T) {
	t.Parallel()

	// 20 gallons split 10/10 across CA and NV; purchases cover only CA.
	trips := []*domain.TripRecord{
		{StartJurisdiction: "CA", EndJurisdiction: "NV", Miles: 200, Gallons: 20},
	}
	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "CA", Gallons: 10},
	}

	discrepancies := newTestDetector().Detect(trips, fuel)
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	d := discrepancies[0]
	if d.Jurisdiction != "NV" {
		t.Fatalf("expected NV discrepancy, got %s", d.Jurisdiction)
	}
	if math.Abs(d.Gallons-(-10)) > 1e-9 {
		t.Errorf("expected -10 gallons in NV, got %f", d.Gallons)
	}
}

func TestDetect_JurisdictionInEitherSet(t *testing.T) {
	t.Parallel()

	// Fuel bought in a jurisdiction with no trips at all.
	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "ID", Gallons: 30},
	}

	discrepancies := newTestDetector().Detect(nil, fuel)
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	if discrepancies[0].Gallons != 30 {
		t.Errorf("expected +30 gallons, got %f", discrepancies[0].Gallons)
	}
}

func TestDetect_EmptyInputs(t *testing.T) {
	t.Parallel()

	if got := newTestDetector().Detect(nil, nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestDetect_OrderedByJurisdiction(t *testing.T) {
	t.Parallel()

	fuel := []*domain.FuelPurchaseEntry{
		{Jurisdiction: "WY", Gallons: 5},
		{Jurisdiction: "AZ", Gallons: 7},
		{Jurisdiction: "MT", Gallons: 3},
	}

	discrepancies := newTestDetector().Detect(nil, fuel)
	if len(discrepancies) != 3 {
		t.Fatalf("expected 3 discrepancies, got %d", len(discrepancies))
	}
	for i := 1; i < len(discrepancies); i++ {
		if discrepancies[i-1].Jurisdiction > discrepancies[i].Jurisdiction {
			t.Errorf("output not ordered: %s before %s",
				discrepancies[i-1].Jurisdiction, discrepancies[i].Jurisdiction)
		}
	}
}

func TestSortByMagnitude(t *testing.T) {
	t.Parallel()

	discrepancies := []domain.Discrepancy{
		{Jurisdiction: "AZ", Gallons: 2},
		{Jurisdiction: "CA", Gallons: -9},
		{Jurisdiction: "NV", Gallons: 5},
	}

	SortByMagnitude(discrepancies)

	want := []string{"CA", "NV", "AZ"}
	for i, w := range want {
		if discrepancies[i].Jurisdiction != w {
			t.Errorf("position %d: expected %s, got %s", i, w, discrepancies[i].Jurisdiction)
		}
	}
}
