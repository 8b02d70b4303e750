package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"haul/internal/domain"
	internalRedis "haul/internal/redis"
	"haul/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP RECORD REPOSITORY
// ──────────────────────────────────────────────

// MockTripRecordRepository is a mock implementation of TripRecordRepository.
type MockTripRecordRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.TripRecord

	// Counters for verification
	CreateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	ListError   error
	DeleteError error

	// CreateErrorFor fails Create only for trips ending in the given
	// jurisdiction. Used to exercise per-jurisdiction failure isolation.
	CreateErrorFor map[string]error
}

// NewMockTripRecordRepository creates a new mock trip record repository.
func NewMockTripRecordRepository() *MockTripRecordRepository {
	return &MockTripRecordRepository{
		trips: make(map[string]*domain.TripRecord),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRecordRepository) AddTrip(trip *domain.TripRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRecordRepository) Create(ctx context.Context, trip *domain.TripRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	if err, ok := m.CreateErrorFor[trip.EndJurisdiction]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRecordRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *trip
	return &clone, nil
}

func (m *MockTripRecordRepository) ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.TripRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.TripRecord, 0, len(m.trips))
	for _, t := range m.trips {
		if t.UserID != userID || t.Quarter != quarter {
			continue
		}
		if vehicleID != "" && t.VehicleID != vehicleID {
			continue
		}
		clone := *t
		result = append(result, &clone)
	}
	return result, nil
}

func (m *MockTripRecordRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

// TripCount returns the number of stored trips for test assertions.
func (m *MockTripRecordRepository) TripCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// TripsByOrigin returns stored trips with the given origin.
func (m *MockTripRecordRepository) TripsByOrigin(origin domain.TripOrigin) []*domain.TripRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.TripRecord
	for _, t := range m.trips {
		if t.Origin == origin {
			clone := *t
			result = append(result, &clone)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK FUEL PURCHASE REPOSITORY
// ──────────────────────────────────────────────

// MockFuelPurchaseRepository is a mock implementation of FuelPurchaseRepository.
type MockFuelPurchaseRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.FuelPurchaseEntry

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	ListError   error
	LatestError error
}

// NewMockFuelPurchaseRepository creates a new mock fuel purchase repository.
func NewMockFuelPurchaseRepository() *MockFuelPurchaseRepository {
	return &MockFuelPurchaseRepository{
		entries: make(map[string]*domain.FuelPurchaseEntry),
	}
}

// AddEntry adds a fuel purchase to the mock repository.
func (m *MockFuelPurchaseRepository) AddEntry(entry *domain.FuelPurchaseEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

func (m *MockFuelPurchaseRepository) Create(ctx context.Context, entry *domain.FuelPurchaseEntry) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockFuelPurchaseRepository) GetByID(ctx context.Context, id string) (*domain.FuelPurchaseEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (m *MockFuelPurchaseRepository) ListForQuarter(ctx context.Context, userID string, quarter domain.Quarter, vehicleID string) ([]*domain.FuelPurchaseEntry, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FuelPurchaseEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.UserID != userID || e.Quarter != quarter {
			continue
		}
		if vehicleID != "" && e.VehicleID != vehicleID {
			continue
		}
		clone := *e
		result = append(result, &clone)
	}
	return result, nil
}

func (m *MockFuelPurchaseRepository) LatestInJurisdiction(ctx context.Context, userID string, quarter domain.Quarter, jurisdiction string) (*domain.FuelPurchaseEntry, error) {
	if m.LatestError != nil {
		return nil, m.LatestError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.FuelPurchaseEntry
	for _, e := range m.entries {
		if e.UserID != userID || e.Quarter != quarter || e.Jurisdiction != jurisdiction {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

// ──────────────────────────────────────────────
// MOCK QUARTER LOCK REPOSITORY
// ──────────────────────────────────────────────

// MockQuarterLockRepository is a mock implementation of QuarterLockRepository.
type MockQuarterLockRepository struct {
	mu    sync.RWMutex
	locks map[string]bool

	// Error injection
	LockError     error
	IsLockedError error
}

// NewMockQuarterLockRepository creates a new mock quarter lock repository.
func NewMockQuarterLockRepository() *MockQuarterLockRepository {
	return &MockQuarterLockRepository{
		locks: make(map[string]bool),
	}
}

func quarterLockKey(userID string, quarter domain.Quarter) string {
	return userID + ":" + quarter.String()
}

func (m *MockQuarterLockRepository) Lock(ctx context.Context, userID string, quarter domain.Quarter) error {
	if m.LockError != nil {
		return m.LockError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[quarterLockKey(userID, quarter)] = true
	return nil
}

func (m *MockQuarterLockRepository) Unlock(ctx context.Context, userID string, quarter domain.Quarter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, quarterLockKey(userID, quarter))
	return nil
}

func (m *MockQuarterLockRepository) IsLocked(ctx context.Context, userID string, quarter domain.Quarter) (bool, error) {
	if m.IsLockedError != nil {
		return false, m.IsLockedError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locks[quarterLockKey(userID, quarter)], nil
}

// ──────────────────────────────────────────────
// MOCK SYNC LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu   sync.Mutex
	held map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		held: make(map[string]bool),
	}
}

// HoldLock pre-holds a lock so the next acquire fails, simulating a
// concurrent synthesis run.
func (m *MockLockStore) HoldLock(userID, quarter string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[userID+":"+quarter] = true
}

func (m *MockLockStore) AcquireSyncLock(ctx context.Context, userID, quarter string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + ":" + quarter
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSyncLock(ctx context.Context, userID, quarter string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, userID+":"+quarter)
	return nil
}

// IsHeld reports whether the lock is currently held, for test assertions.
func (m *MockLockStore) IsHeld(userID, quarter string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[userID+":"+quarter]
}

// ──────────────────────────────────────────────
// MOCK SUMMARY CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu        sync.RWMutex
	summaries map[string]*internalRedis.CachedSummary

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError        error
	SetError        error
	InvalidateError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		summaries: make(map[string]*internalRedis.CachedSummary),
	}
}

func summaryCacheKey(userID, quarter, vehicleID string) string {
	return userID + ":" + quarter + ":" + vehicleID
}

func (m *MockCacheStore) GetSummary(ctx context.Context, userID, quarter, vehicleID string) (*internalRedis.CachedSummary, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary, ok := m.summaries[summaryCacheKey(userID, quarter, vehicleID)]
	if !ok {
		return nil, nil // Cache miss
	}
	clone := *summary
	return &clone, nil
}

func (m *MockCacheStore) SetSummary(ctx context.Context, userID string, summary *internalRedis.CachedSummary) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *summary
	m.summaries[summaryCacheKey(userID, summary.Quarter, summary.VehicleID)] = &clone
	return nil
}

func (m *MockCacheStore) InvalidateSummaries(ctx context.Context, userID, quarter string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := userID + ":" + quarter + ":"
	for key := range m.summaries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.summaries, key)
		}
	}
	return nil
}

// CachedCount returns the number of cached summaries for test assertions.
func (m *MockCacheStore) CachedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.summaries)
}

// Interface compliance checks.
var (
	_ repository.TripRecordRepository   = (*MockTripRecordRepository)(nil)
	_ repository.FuelPurchaseRepository = (*MockFuelPurchaseRepository)(nil)
	_ repository.QuarterLockRepository  = (*MockQuarterLockRepository)(nil)
	_ internalRedis.LockStoreInterface  = (*MockLockStore)(nil)
	_ internalRedis.CacheStoreInterface = (*MockCacheStore)(nil)
)
