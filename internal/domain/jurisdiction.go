package domain

// JurisdictionTotal is the aggregation result for one jurisdiction within one
// quarter/vehicle scope. Derived on every pass, never persisted.
type JurisdictionTotal struct {
	Jurisdiction   string
	TotalMiles     float64
	TaxableMiles   float64 // under current policy equal to TotalMiles
	TaxPaidGallons float64 // sum of fuel purchased in the jurisdiction
	TaxableGallons float64 // estimated from miles and fleet-average economy
}

// NetTaxableGallons is the jurisdiction's taxable gallons less the gallons on
// which fuel tax was already paid at the pump.
func (t *JurisdictionTotal) NetTaxableGallons() float64 {
	return t.TaxableGallons - t.TaxPaidGallons
}

// Discrepancy describes one jurisdiction where purchased gallons and
// trip-recorded gallons disagree beyond the detection tolerance.
//
// A positive Gallons value means fuel was bought in the jurisdiction but not
// accounted for by any trip; a negative value means trips claim more fuel than
// was purchased and requires manual review.
type Discrepancy struct {
	Jurisdiction    string
	PurchaseGallons float64
	TripGallons     float64
	Gallons         float64 // PurchaseGallons - TripGallons
}
