package service

import "errors"

var (
	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidVehicleID is returned when the vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidTripID is returned when the trip record ID is empty.
	ErrInvalidTripID = errors.New("invalid trip record id")

	// ErrInvalidPurchaseID is returned when the fuel purchase ID is empty.
	ErrInvalidPurchaseID = errors.New("invalid fuel purchase id")

	// ErrInvalidMiles is returned when a trip's miles are negative.
	ErrInvalidMiles = errors.New("miles must be non-negative")

	// ErrInvalidGallons is returned when a gallon amount is negative.
	ErrInvalidGallons = errors.New("gallons must be non-negative")

	// ErrInvalidJurisdiction is returned when a fuel purchase has no
	// jurisdiction code.
	ErrInvalidJurisdiction = errors.New("invalid jurisdiction code")

	// ErrInvalidOrigin is returned when a trip origin is not one of the
	// accepted entry origins. FUEL_ONLY is reserved for the synthesizer.
	ErrInvalidOrigin = errors.New("invalid trip origin")

	// ErrInvalidDate is returned when a trip's date range is inverted.
	ErrInvalidDate = errors.New("end date before start date")

	// ErrQuarterLocked is returned when writing into a quarter that has
	// been closed for filing.
	ErrQuarterLocked = errors.New("quarter is locked for filing")

	// ErrSyncInProgress is returned when a reconciliation sync is already
	// running for the same user and quarter.
	ErrSyncInProgress = errors.New("reconciliation sync already in progress")

	// ErrUnsupportedFormat is returned when an export format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
