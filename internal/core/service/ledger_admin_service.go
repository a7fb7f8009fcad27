package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/port"
)

// LedgerAdminService exposes the elevated ledger operations. Whether a
// caller may use it is decided before it is reached.
type LedgerAdminService struct {
	admin  port.LedgerAdmin
	logger *zap.Logger
}

func NewLedgerAdminService(admin port.LedgerAdmin, logger *zap.Logger) *LedgerAdminService {
	return &LedgerAdminService{admin: admin, logger: logger}
}

func (s *LedgerAdminService) ListEntries(ctx context.Context, tenantID string) ([]domain.EntryView, error) {
	if tenantID == "" {
		return nil, &domain.ValidationError{Field: "orgId", Reason: "is required"}
	}

	entries, err := s.admin.ListEntries(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []domain.EntryView{}
	}
	return entries, nil
}

// DeleteEntry is irreversible. Lot counters are not rewound.
func (s *LedgerAdminService) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return &domain.ValidationError{Field: "entryId", Reason: "is required"}
	}

	if err := s.admin.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}

	s.logger.Info("inventory entry deleted", zap.String("entry_id", id))
	return nil
}
