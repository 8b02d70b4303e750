package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"haul/internal/domain"
	"haul/internal/redis"
	"haul/internal/repository"
)

// FuelService handles fuel purchase entry operations. Entries are read-only
// to the reconciliation engine once created.
type FuelService struct {
	fuelRepo   repository.FuelPurchaseRepository
	cacheStore redis.CacheStoreInterface
}

// NewFuelService creates a new FuelService.
func NewFuelService(fuelRepo repository.FuelPurchaseRepository, cacheStore redis.CacheStoreInterface) *FuelService {
	return &FuelService{
		fuelRepo:   fuelRepo,
		cacheStore: cacheStore,
	}
}

// CreateFuelPurchaseRequest contains the parameters for recording a purchase.
type CreateFuelPurchaseRequest struct {
	UserID       string
	VehicleID    string
	Date         time.Time
	Jurisdiction string
	Gallons      float64
	Amount       float64
}

// CreateFuelPurchase validates and persists a fuel purchase. The reporting
// quarter is derived from the purchase date.
func (s *FuelService) CreateFuelPurchase(ctx context.Context, req CreateFuelPurchaseRequest) (*domain.FuelPurchaseEntry, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.Jurisdiction == "" {
		return nil, ErrInvalidJurisdiction
	}
	if req.Gallons < 0 {
		return nil, ErrInvalidGallons
	}
	if req.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	entry := &domain.FuelPurchaseEntry{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		VehicleID:    req.VehicleID,
		Quarter:      domain.QuarterOf(req.Date),
		Date:         req.Date,
		Jurisdiction: req.Jurisdiction,
		Gallons:      req.Gallons,
		Amount:       req.Amount,
	}

	if err := s.fuelRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.InvalidateSummaries(ctx, entry.UserID, entry.Quarter.String()); err != nil {
			log.Printf("failed to invalidate summary cache for %s/%s: %v", entry.UserID, entry.Quarter, err)
		}
	}

	return entry, nil
}

// ListFuelPurchases retrieves all fuel purchases in a scope.
func (s *FuelService) ListFuelPurchases(ctx context.Context, req ScopeRequest) ([]*domain.FuelPurchaseEntry, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	return s.fuelRepo.ListForQuarter(ctx, req.UserID, req.Quarter, req.VehicleID)
}
