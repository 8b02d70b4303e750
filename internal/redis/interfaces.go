package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for reconciliation-sync locking.
type LockStoreInterface interface {
	AcquireSyncLock(ctx context.Context, userID, quarter string, ttl time.Duration) (bool, error)
	ReleaseSyncLock(ctx context.Context, userID, quarter string) error
}

// CacheStoreInterface defines the interface for summary caching.
type CacheStoreInterface interface {
	GetSummary(ctx context.Context, userID, quarter, vehicleID string) (*CachedSummary, error)
	SetSummary(ctx context.Context, userID string, summary *CachedSummary) error
	InvalidateSummaries(ctx context.Context, userID, quarter string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
