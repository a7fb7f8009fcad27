package port

import (
	"context"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

// LedgerWriter is the restricted capability used by intake terminals.
type LedgerWriter interface {
	// InsertEntry persists the complete row or nothing at all
	InsertEntry(ctx context.Context, entry domain.InventoryEntry) error

	// FindEntry returns domain.ErrNotFound unless id belongs to tenantID
	FindEntry(ctx context.Context, tenantID, id string) (*domain.InventoryEntry, error)
}

// LedgerAdmin is the elevated capability reserved for managers.
type LedgerAdmin interface {
	// ListEntries returns the tenant's entries, newest first
	ListEntries(ctx context.Context, tenantID string) ([]domain.EntryView, error)

	// DeleteEntry removes a row by id; counters are left untouched
	DeleteEntry(ctx context.Context, id string) error
}
