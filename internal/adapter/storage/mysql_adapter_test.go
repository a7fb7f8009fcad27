package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/coldstorage?parseTime=true"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func cleanupTenant(db *sqlx.DB, tenantID string) {
	ctx := context.Background()
	db.ExecContext(ctx, `DELETE FROM inventory_entries WHERE org_id = ?`, tenantID)
	db.ExecContext(ctx, `DELETE FROM lot_sequences WHERE org_id = ?`, tenantID)
	db.ExecContext(ctx, `DELETE FROM profiles WHERE org_id = ?`, tenantID)
	db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, tenantID)
}

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		unknown bool
	}{
		{"invalid connection", mysql.ErrInvalidConn, true},
		{"bad connection", driver.ErrBadConn, true},
		{"duplicate key", &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"}, false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyWriteError("insert entry", tt.err)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected cause to be preserved, got %v", err)
			}
			if got := errors.Is(err, domain.ErrOutcomeUnknown); got != tt.unknown {
				t.Errorf("expected unknown=%v, got %v", tt.unknown, got)
			}
		})
	}
}

func TestIncrement_StartsAtOne(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	key := domain.SequenceKey{TenantID: tenant, LotBase: "A1"}

	for want := int64(1); want <= 3; want++ {
		got, err := adapter.Increment(ctx, key)
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}
}

func TestIncrement_LotBaseIsCaseSensitive(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	for _, base := range []string{"A1", "a1", "A1 "} {
		got, err := adapter.Increment(ctx, domain.SequenceKey{TenantID: tenant, LotBase: base})
		if err != nil {
			t.Fatalf("Increment(%q) failed: %v", base, err)
		}
		if got != 1 {
			t.Errorf("lot base %q: expected 1, got %d", base, got)
		}
	}
}

func TestIncrement_Concurrent(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	key := domain.SequenceKey{TenantID: tenant, LotBase: "B7"}
	concurrency := 100

	var mu sync.Mutex
	var got []int64
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			index, err := adapter.Increment(ctx, key)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			got = append(got, index)
			mu.Unlock()
		}()
	}

	wg.Wait()

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != concurrency {
		t.Fatalf("expected %d indices, got %d", concurrency, len(got))
	}
	for i, index := range got {
		if index != int64(i+1) {
			t.Fatalf("expected contiguous indices, position %d holds %d", i, index)
		}
	}

	current, err := adapter.Current(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current != int64(concurrency) {
		t.Errorf("expected high-water mark %d, got %d", concurrency, current)
	}
}

func TestInsertAndListEntries(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	accounts := NewMySQLAccountAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	creator := domain.Profile{
		ID:           uuid.New().String(),
		OrgID:        tenant,
		FullName:     "Mohan Lal",
		Username:     "mohan-" + tenant[:8],
		PasswordHash: "x",
		Role:         domain.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
	}
	if err := accounts.CreateProfile(ctx, creator); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 1; i <= 2; i++ {
		entry := domain.InventoryEntry{
			ID:            uuid.New().String(),
			OrgID:         tenant,
			CreatedBy:     creator.ID,
			FarmerName:    "Ramesh",
			FarmerCount:   20,
			LotBase:       "A1",
			LotIndex:      int64(i),
			FullLotNumber: domain.FullLotNumber("A1", int64(i), 20),
			CountGulla:    5,
			ActualCount:   5,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		}
		if err := adapter.InsertEntry(ctx, entry); err != nil {
			t.Fatalf("InsertEntry failed: %v", err)
		}
	}

	entries, err := adapter.ListEntries(ctx, tenant)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].FullLotNumber != "A1.2/20" {
		t.Errorf("expected newest first, got %s", entries[0].FullLotNumber)
	}
	if entries[0].CreatorName != "Mohan Lal" {
		t.Errorf("expected creator name, got %q", entries[0].CreatorName)
	}

	found, err := adapter.FindEntry(ctx, tenant, entries[1].ID)
	if err != nil {
		t.Fatalf("FindEntry failed: %v", err)
	}
	if found.LotIndex != 1 {
		t.Errorf("expected lot index 1, got %d", found.LotIndex)
	}

	if _, err := adapter.FindEntry(ctx, uuid.New().String(), entries[1].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign tenant, got %v", err)
	}
}

func TestInsertEntry_DuplicateLotRejected(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	entry := domain.InventoryEntry{
		ID:            uuid.New().String(),
		OrgID:         tenant,
		CreatedBy:     "u1",
		FarmerName:    "Ramesh",
		LotBase:       "A1",
		LotIndex:      1,
		FullLotNumber: "A1.1/0",
		CreatedAt:     time.Now().UTC(),
	}
	if err := adapter.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	entry.ID = uuid.New().String()
	if err := adapter.InsertEntry(ctx, entry); err == nil {
		t.Error("expected second insert with the same lot number to fail")
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	err := adapter.DeleteEntry(context.Background(), uuid.New().String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEntry_KeepsCounter(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	key := domain.SequenceKey{TenantID: tenant, LotBase: "C3"}

	index, err := adapter.Increment(ctx, key)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	entry := domain.InventoryEntry{
		ID:            uuid.New().String(),
		OrgID:         tenant,
		CreatedBy:     "u1",
		FarmerName:    "Ramesh",
		LotBase:       "C3",
		LotIndex:      index,
		FullLotNumber: domain.FullLotNumber("C3", index, 1),
		CreatedAt:     time.Now().UTC(),
	}
	if err := adapter.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	if err := adapter.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	next, err := adapter.Increment(ctx, key)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if next != 2 {
		t.Errorf("expected 2 after delete, got %d", next)
	}
}

func TestCreateProfile_UsernameTaken(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	accounts := NewMySQLAccountAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	profile := domain.Profile{
		ID:           uuid.New().String(),
		OrgID:        tenant,
		FullName:     "Ravi",
		Username:     "ravi-" + tenant[:8],
		PasswordHash: "x",
		Role:         domain.RoleManager,
		CreatedAt:    time.Now().UTC(),
	}
	if err := accounts.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	profile.ID = uuid.New().String()
	if err := accounts.CreateProfile(ctx, profile); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateWatermark_Unchanged(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	accounts := NewMySQLAccountAdapter(db)
	tenant := uuid.New().String()
	defer cleanupTenant(db, tenant)

	ctx := context.Background()
	if err := accounts.CreateOrganization(ctx, domain.Organization{ID: tenant, Name: "North"}); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := accounts.UpdateWatermark(ctx, tenant, "https://cdn.example/wm.png"); err != nil {
			t.Fatalf("UpdateWatermark #%d failed: %v", i+1, err)
		}
	}

	if err := accounts.UpdateWatermark(ctx, uuid.New().String(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown org, got %v", err)
	}
}
