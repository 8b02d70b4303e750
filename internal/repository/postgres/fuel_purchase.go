package postgres

import (
	"context"
	"database/sql"
	"errors"

	"haul/internal/domain"
	"haul/internal/repository"
)

// FuelPurchaseRepository is a PostgreSQL implementation of repository.FuelPurchaseRepository.
type FuelPurchaseRepository struct {
	q Querier
}

// NewFuelPurchaseRepository creates a new PostgreSQL fuel purchase repository.
func NewFuelPurchaseRepository(db *sql.DB) *FuelPurchaseRepository {
	return &FuelPurchaseRepository{q: db}
}

// NewFuelPurchaseRepositoryWithTx creates a fuel purchase repository using a transaction.
func NewFuelPurchaseRepositoryWithTx(tx *sql.Tx) *FuelPurchaseRepository {
	return &FuelPurchaseRepository{q: tx}
}

const fuelColumns = `id, user_id, vehicle_id, quarter, purchased_at, jurisdiction, gallons, amount`

// Create persists a new fuel purchase entry.
func (r *FuelPurchaseRepository) Create(ctx context.Context, entry *domain.FuelPurchaseEntry) error {
	query := `
		INSERT INTO fuel_purchases (` + fuelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.VehicleID,
		entry.Quarter.String(),
		entry.Date,
		entry.Jurisdiction,
		entry.Gallons,
		entry.Amount,
	)

	return err
}

// GetByID retrieves a fuel purchase by ID.
func (r *FuelPurchaseRepository) GetByID(ctx context.Context, id string) (*domain.FuelPurchaseEntry, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_purchases WHERE id = $1`

	entry, err := scanFuelPurchase(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return entry, nil
}

// ListForQuarter retrieves all fuel purchases for a user and quarter,
// optionally restricted to one vehicle.
func (r *FuelPurchaseRepository) ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.FuelPurchaseEntry, error) {
	query := `
		SELECT ` + fuelColumns + `
		FROM fuel_purchases
		WHERE user_id = $1 AND quarter = $2 AND ($3 = '' OR vehicle_id = $3)
		ORDER BY purchased_at, id
	`

	rows, err := r.q.QueryContext(ctx, query, userID, quarter.String(), vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.FuelPurchaseEntry
	for rows.Next() {
		entry, err := scanFuelPurchase(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// LatestInJurisdiction retrieves the most recent purchase for a user, quarter
// and jurisdiction. Returns nil if none exists.
func (r *FuelPurchaseRepository) LatestInJurisdiction(ctx context.Context, userID string, quarter domain.Quarter, jurisdiction string) (*domain.FuelPurchaseEntry, error) {
	query := `
		SELECT ` + fuelColumns + `
		FROM fuel_purchases
		WHERE user_id = $1 AND quarter = $2 AND jurisdiction = $3
		ORDER BY purchased_at DESC
		LIMIT 1
	`

	entry, err := scanFuelPurchase(r.q.QueryRowContext(ctx, query, userID, quarter.String(), jurisdiction))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}

func scanFuelPurchase(s scanner) (*domain.FuelPurchaseEntry, error) {
	var entry domain.FuelPurchaseEntry
	var quarter string

	if err := s.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.VehicleID,
		&quarter,
		&entry.Date,
		&entry.Jurisdiction,
		&entry.Gallons,
		&entry.Amount,
	); err != nil {
		return nil, err
	}

	q, err := domain.ParseQuarter(quarter)
	if err != nil {
		return nil, err
	}
	entry.Quarter = q

	return &entry, nil
}

// Ensure FuelPurchaseRepository implements repository.FuelPurchaseRepository.
var _ repository.FuelPurchaseRepository = (*FuelPurchaseRepository)(nil)
