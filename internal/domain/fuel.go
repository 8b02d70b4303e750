package domain

import "time"

// FuelPurchaseEntry represents one fuel purchase for one vehicle.
// Entries are read-only to the reconciliation engine; it never mutates them.
type FuelPurchaseEntry struct {
	ID           string
	UserID       string
	VehicleID    string
	Quarter      Quarter
	Date         time.Time
	Jurisdiction string // state/province where the fuel was bought
	Gallons      float64
	Amount       float64 // total amount paid
}
