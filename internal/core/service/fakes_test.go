package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

var errStoreDown = errors.New("store unreachable")

// Mock SequenceStore
type mockSequenceStore struct {
	mu       sync.Mutex
	counters map[domain.SequenceKey]int64
	failNext int
	calls    int
}

func newMockSequenceStore() *mockSequenceStore {
	return &mockSequenceStore{counters: make(map[domain.SequenceKey]int64)}
}

func (m *mockSequenceStore) Increment(ctx context.Context, key domain.SequenceKey) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.failNext > 0 {
		m.failNext--
		return 0, errStoreDown
	}
	m.counters[key]++
	return m.counters[key], nil
}

func (m *mockSequenceStore) current(key domain.SequenceKey) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

// Mock ledger, implements both capabilities
type mockLedger struct {
	mu        sync.Mutex
	entries   map[string]domain.InventoryEntry
	insertErr error
}

func newMockLedger() *mockLedger {
	return &mockLedger{entries: make(map[string]domain.InventoryEntry)}
}

func (m *mockLedger) InsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockLedger) FindEntry(ctx context.Context, tenantID, id string) (*domain.InventoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok || entry.OrgID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (m *mockLedger) ListEntries(ctx context.Context, tenantID string) ([]domain.EntryView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var views []domain.EntryView
	for _, e := range m.entries {
		if e.OrgID == tenantID {
			views = append(views, domain.EntryView{InventoryEntry: e, CreatorName: "creator-" + e.CreatedBy})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (m *mockLedger) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// Mock CacheRepository
type mockCacheRepo struct {
	mu             sync.Mutex
	idempotencySet map[string]bool
	err            error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{idempotencySet: make(map[string]bool)}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotencySet, key)
	return nil
}

func (m *mockCacheRepo) claimed(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idempotencySet[key]
}

func newTestLedgerService(store *mockSequenceStore, ledger *mockLedger, cache *mockCacheRepo) *LedgerService {
	if cache == nil {
		return NewLedgerService(NewSequenceAllocator(store), ledger, nil, zap.NewNop())
	}
	return NewLedgerService(NewSequenceAllocator(store), ledger, cache, zap.NewNop())
}
