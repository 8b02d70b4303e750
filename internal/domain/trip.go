package domain

import "time"

// TripOrigin records how a trip record entered the system.
type TripOrigin string

const (
	// TripOriginMileageImport marks trips imported from a state-mileage tracker.
	TripOriginMileageImport TripOrigin = "MILEAGE_IMPORT"

	// TripOriginLoadImport marks trips derived from a completed load.
	TripOriginLoadImport TripOrigin = "LOAD_IMPORT"

	// TripOriginManual marks trips entered by hand.
	TripOriginManual TripOrigin = "MANUAL"

	// TripOriginFuelOnly marks zero-mile records synthesized by the
	// reconciliation engine to absorb unaccounted fuel purchases.
	TripOriginFuelOnly TripOrigin = "FUEL_ONLY"
)

// UnknownVehicleID is the sentinel used when a synthesized record cannot be
// attributed to a real vehicle. It is never a valid vehicle identifier.
const UnknownVehicleID = "UNKNOWN"

// TripRecord represents one trip segment for one vehicle in one reporting quarter.
//
// If StartJurisdiction equals EndJurisdiction all miles belong to that
// jurisdiction; if they differ the miles are apportioned by the configured
// allocation rule. A FUEL_ONLY record always has zero miles and equal
// jurisdictions.
type TripRecord struct {
	ID                string
	UserID            string
	Quarter           Quarter
	VehicleID         string
	DriverID          string // optional
	StartDate         time.Time
	EndDate           time.Time
	StartJurisdiction string // empty = unknown
	EndJurisdiction   string // empty = unknown
	Miles             float64
	Gallons           float64
	FuelCost          float64
	Origin            TripOrigin
	Note              string
}

// HasJurisdictions reports whether both endpoint jurisdiction codes are set.
// Trips without both codes contribute no miles or gallons to any jurisdiction.
func (t *TripRecord) HasJurisdictions() bool {
	return t.StartJurisdiction != "" && t.EndJurisdiction != ""
}

// Synthesized reports whether the record was created by the reconciliation
// engine rather than a user or an import.
func (t *TripRecord) Synthesized() bool {
	return t.Origin == TripOriginFuelOnly
}
