package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles reconciliation snapshot caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// SummaryCacheTTL is short: a summary goes stale the moment a trip or
	// fuel purchase is written, and invalidation covers only writes that go
	// through this service.
	SummaryCacheTTL = 60 * time.Second
)

// Key prefixes
const (
	summaryCachePrefix = "cache:iftasummary:"
)

// CachedJurisdictionTotal is one jurisdiction row of a cached summary.
type CachedJurisdictionTotal struct {
	Jurisdiction      string  `json:"jurisdiction"`
	TotalMiles        float64 `json:"total_miles"`
	TaxableMiles      float64 `json:"taxable_miles"`
	TaxPaidGallons    float64 `json:"tax_paid_gallons"`
	TaxableGallons    float64 `json:"taxable_gallons"`
	NetTaxableGallons float64 `json:"net_taxable_gallons"`
}

// CachedSummary is a cached aggregation pass for one user/quarter/vehicle scope.
type CachedSummary struct {
	Quarter      string                    `json:"quarter"`
	VehicleID    string                    `json:"vehicle_id,omitempty"`
	Totals       []CachedJurisdictionTotal `json:"totals"`
	TripCount    int                       `json:"trip_count"`
	FuelCount    int                       `json:"fuel_count"`
	FleetMiles   float64                   `json:"fleet_miles"`
	FleetGallons float64                   `json:"fleet_gallons"`
	FuelSpend    float64                   `json:"fuel_spend"`
	FleetEconomy float64                   `json:"fleet_economy"`
	ComputedAt   time.Time                 `json:"computed_at"`
}

func summaryKey(userID, quarter, vehicleID string) string {
	return fmt.Sprintf("%s%s:%s:%s", summaryCachePrefix, userID, quarter, vehicleID)
}

// GetSummary retrieves a cached summary. Returns nil on cache miss.
func (s *CacheStore) GetSummary(ctx context.Context, userID, quarter, vehicleID string) (*CachedSummary, error) {
	data, err := s.client.Get(ctx, summaryKey(userID, quarter, vehicleID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var summary CachedSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetSummary stores a summary in cache.
func (s *CacheStore) SetSummary(ctx context.Context, userID string, summary *CachedSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, summaryKey(userID, summary.Quarter, summary.VehicleID), data, SummaryCacheTTL).Err()
}

// InvalidateSummaries removes every cached summary for a user and quarter,
// across all vehicle scopes. Called after any trip or fuel write.
func (s *CacheStore) InvalidateSummaries(ctx context.Context, userID, quarter string) error {
	pattern := fmt.Sprintf("%s%s:%s:*", summaryCachePrefix, userID, quarter)

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
