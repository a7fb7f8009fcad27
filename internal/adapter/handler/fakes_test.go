package handler

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/core/service"
)

var errStoreDown = errors.New("store unreachable")

type memSequenceStore struct {
	mu       sync.Mutex
	counters map[domain.SequenceKey]int64
	err      error
}

func (m *memSequenceStore) Increment(ctx context.Context, key domain.SequenceKey) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counters[key]++
	return m.counters[key], nil
}

type memLedger struct {
	mu        sync.Mutex
	entries   map[string]domain.InventoryEntry
	insertErr error
}

func (m *memLedger) InsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *memLedger) FindEntry(ctx context.Context, tenantID, id string) (*domain.InventoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok || entry.OrgID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (m *memLedger) ListEntries(ctx context.Context, tenantID string) ([]domain.EntryView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var views []domain.EntryView
	for _, e := range m.entries {
		if e.OrgID == tenantID {
			views = append(views, domain.EntryView{InventoryEntry: e})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].LotIndex > views[j].LotIndex })
	return views, nil
}

func (m *memLedger) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

type memCache struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memCache) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type memAccounts struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	orgs     map[string]domain.Organization
}

func (m *memAccounts) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccounts) CreateProfile(ctx context.Context, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Username == profile.Username {
			return domain.ErrUsernameTaken
		}
	}
	m.profiles[profile.ID] = profile
	return nil
}

func (m *memAccounts) ListByRole(ctx context.Context, orgID string, role domain.Role) ([]domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Profile
	for _, p := range m.profiles {
		if p.OrgID == orgID && p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memAccounts) DeleteProfile(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *memAccounts) CreateOrganization(ctx context.Context, org domain.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[org.ID] = org
	return nil
}

func (m *memAccounts) FindOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &org, nil
}

func (m *memAccounts) UpdateWatermark(ctx context.Context, id, watermarkURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return domain.ErrNotFound
	}
	org.WatermarkURL = watermarkURL
	m.orgs[id] = org
	return nil
}

type testDeps struct {
	store    *memSequenceStore
	ledger   *memLedger
	cache    *memCache
	accounts *memAccounts

	ledgerSvc  *service.LedgerService
	adminSvc   *service.LedgerAdminService
	accountSvc *service.AccountService
}

func newTestDeps() *testDeps {
	d := &testDeps{
		store:    &memSequenceStore{counters: map[domain.SequenceKey]int64{}},
		ledger:   &memLedger{entries: map[string]domain.InventoryEntry{}},
		cache:    &memCache{keys: map[string]bool{}},
		accounts: &memAccounts{profiles: map[string]domain.Profile{}, orgs: map[string]domain.Organization{}},
	}

	logger := zap.NewNop()
	d.ledgerSvc = service.NewLedgerService(service.NewSequenceAllocator(d.store), d.ledger, d.cache, logger)
	d.adminSvc = service.NewLedgerAdminService(d.ledger, logger)
	d.accountSvc = service.NewAccountService(d.accounts, d.accounts, logger)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	d.accounts.orgs["org-1"] = domain.Organization{ID: "org-1", Name: "North Cold Store"}
	d.accounts.profiles["mgr-1"] = domain.Profile{
		ID: "mgr-1", OrgID: "org-1", FullName: "Ravi", Username: "ravi",
		PasswordHash: string(hash), Role: domain.RoleManager,
	}
	return d
}
