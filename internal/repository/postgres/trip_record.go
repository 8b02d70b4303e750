package postgres

import (
	"context"
	"database/sql"
	"errors"

	"haul/internal/domain"
	"haul/internal/repository"
)

// TripRecordRepository is a PostgreSQL implementation of repository.TripRecordRepository.
type TripRecordRepository struct {
	q Querier
}

// NewTripRecordRepository creates a new PostgreSQL trip record repository.
func NewTripRecordRepository(db *sql.DB) *TripRecordRepository {
	return &TripRecordRepository{q: db}
}

// NewTripRecordRepositoryWithTx creates a trip record repository using a transaction.
func NewTripRecordRepositoryWithTx(tx *sql.Tx) *TripRecordRepository {
	return &TripRecordRepository{q: tx}
}

const tripColumns = `id, user_id, quarter, vehicle_id, driver_id, start_date, end_date,
		start_jurisdiction, end_jurisdiction, miles, gallons, fuel_cost, origin, note`

// Create persists a new trip record.
func (r *TripRecordRepository) Create(ctx context.Context, trip *domain.TripRecord) error {
	query := `
		INSERT INTO trip_records (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Quarter.String(),
		trip.VehicleID,
		nullString(trip.DriverID),
		trip.StartDate,
		trip.EndDate,
		nullString(trip.StartJurisdiction),
		nullString(trip.EndJurisdiction),
		trip.Miles,
		trip.Gallons,
		trip.FuelCost,
		trip.Origin,
		trip.Note,
	)

	return err
}

// GetByID retrieves a trip record by ID.
func (r *TripRecordRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	query := `SELECT ` + tripColumns + ` FROM trip_records WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// ListForQuarter retrieves all trip records for a user and quarter, optionally
// restricted to one vehicle.
func (r *TripRecordRepository) ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.TripRecord, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trip_records
		WHERE user_id = $1 AND quarter = $2 AND ($3 = '' OR vehicle_id = $3)
		ORDER BY start_date, id
	`

	rows, err := r.q.QueryContext(ctx, query, userID, quarter.String(), vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.TripRecord
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Delete removes a trip record.
func (r *TripRecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trip_records WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.TripRecord, error) {
	var trip domain.TripRecord
	var quarter string
	var driverID sql.NullString
	var startJurisdiction sql.NullString
	var endJurisdiction sql.NullString

	if err := s.Scan(
		&trip.ID,
		&trip.UserID,
		&quarter,
		&trip.VehicleID,
		&driverID,
		&trip.StartDate,
		&trip.EndDate,
		&startJurisdiction,
		&endJurisdiction,
		&trip.Miles,
		&trip.Gallons,
		&trip.FuelCost,
		&trip.Origin,
		&trip.Note,
	); err != nil {
		return nil, err
	}

	q, err := domain.ParseQuarter(quarter)
	if err != nil {
		return nil, err
	}
	trip.Quarter = q

	if driverID.Valid {
		trip.DriverID = driverID.String
	}
	if startJurisdiction.Valid {
		trip.StartJurisdiction = startJurisdiction.String
	}
	if endJurisdiction.Valid {
		trip.EndJurisdiction = endJurisdiction.String
	}

	return &trip, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure TripRecordRepository implements repository.TripRecordRepository.
var _ repository.TripRecordRepository = (*TripRecordRepository)(nil)
