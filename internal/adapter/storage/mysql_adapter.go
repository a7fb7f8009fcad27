package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Increment bumps the (org, lot base) row under its own row lock and reads
// the new value back through LAST_INSERT_ID on the same connection.
func (m *MySQLAdapter) Increment(ctx context.Context, key domain.SequenceKey) (int64, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lot_sequences (org_id, lot_base, last_index)
		VALUES (?, ?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE last_index = LAST_INSERT_ID(last_index + 1), updated_at = CURRENT_TIMESTAMP(6)`,
		key.TenantID, key.LotBase,
	)
	if err != nil {
		return 0, fmt.Errorf("increment lot sequence: %w", err)
	}

	var index int64
	if err := tx.GetContext(ctx, &index, `SELECT LAST_INSERT_ID()`); err != nil {
		return 0, fmt.Errorf("read lot sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit lot sequence: %w", err)
	}

	return index, nil
}

// Current reads the last issued index without advancing it.
func (m *MySQLAdapter) Current(ctx context.Context, key domain.SequenceKey) (int64, error) {
	var index int64
	err := m.db.GetContext(ctx, &index,
		`SELECT last_index FROM lot_sequences WHERE org_id = ? AND lot_base = ?`, key.TenantID, key.LotBase)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read lot sequence %s: %w", key, err)
	}
	return index, nil
}

func (m *MySQLAdapter) InsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO inventory_entries (
			id, org_id, created_by, farmer_name, father_name, farmer_count,
			lot_number_base, lot_index, full_lot_number,
			count_mota, count_gulla, is_gulla_colored,
			count_ketpeice, is_ketpeice_colored, count_haara,
			is_marked, mark_name, actual_count, created_at
		) VALUES (
			:id, :org_id, :created_by, :farmer_name, :father_name, :farmer_count,
			:lot_number_base, :lot_index, :full_lot_number,
			:count_mota, :count_gulla, :is_gulla_colored,
			:count_ketpeice, :is_ketpeice_colored, :count_haara,
			:is_marked, :mark_name, :actual_count, :created_at
		)`, entry)
	if err != nil {
		return classifyWriteError("insert entry", err)
	}
	return nil
}

// classifyWriteError tags errors from a connection that broke after the
// statement may have reached the server.
func classifyWriteError(op string, err error) error {
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrOutcomeUnknown, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const entryColumns = `
	e.id, e.org_id, e.created_by, e.farmer_name, e.father_name, e.farmer_count,
	e.lot_number_base, e.lot_index, e.full_lot_number,
	e.count_mota, e.count_gulla, e.is_gulla_colored,
	e.count_ketpeice, e.is_ketpeice_colored, e.count_haara,
	e.is_marked, e.mark_name, e.actual_count, e.created_at`

func (m *MySQLAdapter) FindEntry(ctx context.Context, tenantID, id string) (*domain.InventoryEntry, error) {
	var entry domain.InventoryEntry
	err := m.db.GetContext(ctx, &entry, `
		SELECT`+entryColumns+`
		FROM inventory_entries e
		WHERE e.id = ? AND e.org_id = ?`, id, tenantID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query entry: %w", err)
	}
	return &entry, nil
}

func (m *MySQLAdapter) ListEntries(ctx context.Context, tenantID string) ([]domain.EntryView, error) {
	var entries []domain.EntryView
	err := m.db.SelectContext(ctx, &entries, `
		SELECT`+entryColumns+`, COALESCE(p.full_name, '') AS creator_name
		FROM inventory_entries e
		LEFT JOIN profiles p ON p.id = e.created_by
		WHERE e.org_id = ?
		ORDER BY e.created_at DESC, e.lot_index DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

func (m *MySQLAdapter) DeleteEntry(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM inventory_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
