package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSyncLock attempts to acquire the reconciliation-sync lock for the
// given user and quarter. Synthesis writes are at-least-once, so the lock is
// what keeps two rapid "refresh sync" clicks from creating duplicate
// corrective trips. Returns true if the lock was acquired, false if held.
func (s *LockStore) AcquireSyncLock(ctx context.Context, userID, quarter string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:iftasync:%s:%s", userID, quarter)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSyncLock releases the reconciliation-sync lock.
func (s *LockStore) ReleaseSyncLock(ctx context.Context, userID, quarter string) error {
	key := fmt.Sprintf("lock:iftasync:%s:%s", userID, quarter)

	return s.client.Del(ctx, key).Err()
}
