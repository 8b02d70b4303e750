package repository

import (
	"context"

	"haul/internal/domain"
)

// TripRecordRepository defines the persistence operations for trip records.
type TripRecordRepository interface {
	// Create persists a new trip record.
	Create(ctx context.Context, trip *domain.TripRecord) error

	// GetByID retrieves a trip record by ID.
	GetByID(ctx context.Context, id string) (*domain.TripRecord, error)

	// ListForQuarter retrieves all trip records for a user and quarter.
	// If vehicleID is non-empty the result is restricted to that vehicle.
	ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.TripRecord, error)

	// Delete removes a trip record. Records are only ever deleted by
	// explicit user action.
	Delete(ctx context.Context, id string) error
}
