package domain

import "time"

// QuarterLock marks a quarter as closed for filing. Once locked, trip records
// in the quarter are immutable: no new entries, no synthesis, no deletes.
type QuarterLock struct {
	UserID   string
	Quarter  Quarter
	LockedAt time.Time
}
