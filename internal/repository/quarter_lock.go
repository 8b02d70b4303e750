package repository

import (
	"context"

	"haul/internal/domain"
)

// QuarterLockRepository defines the persistence operations for quarter filing
// locks. A locked quarter rejects any trip-record write.
type QuarterLockRepository interface {
	// Lock marks a quarter as closed for filing. Locking an already locked
	// quarter is a no-op.
	Lock(ctx context.Context, userID string, quarter domain.Quarter) error

	// Unlock reopens a quarter.
	Unlock(ctx context.Context, userID string, quarter domain.Quarter) error

	// IsLocked reports whether a quarter is closed for filing.
	IsLocked(ctx context.Context, userID string, quarter domain.Quarter) (bool, error)
}
