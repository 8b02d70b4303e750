package repository

import (
	"context"

	"haul/internal/domain"
)

// FuelPurchaseRepository defines the persistence operations for fuel purchases.
// The reconciliation engine only ever reads these records.
type FuelPurchaseRepository interface {
	// Create persists a new fuel purchase entry.
	Create(ctx context.Context, entry *domain.FuelPurchaseEntry) error

	// GetByID retrieves a fuel purchase by ID.
	GetByID(ctx context.Context, id string) (*domain.FuelPurchaseEntry, error)

	// ListForQuarter retrieves all fuel purchases for a user and quarter.
	// If vehicleID is non-empty the result is restricted to that vehicle.
	ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.FuelPurchaseEntry, error)

	// LatestInJurisdiction retrieves the most recent purchase for a user,
	// quarter and jurisdiction. Returns nil if none exists.
	LatestInJurisdiction(ctx context.Context, userID string, quarter domain.Quarter, jurisdiction string) (*domain.FuelPurchaseEntry, error)
}
