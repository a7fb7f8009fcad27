package service

import (
	"context"
	"fmt"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/port"
)

// SequenceAllocator hands out lot indices. It holds no counter state of its
// own; every call goes to the shared store so that separate server
// processes never hand out the same index.
type SequenceAllocator struct {
	store port.SequenceStore
}

func NewSequenceAllocator(store port.SequenceStore) *SequenceAllocator {
	return &SequenceAllocator{store: store}
}

// Allocate returns the next index for (tenantID, lotBase), starting at 1.
// Any failure is an *domain.AllocationError and leaves the counter as it was.
func (a *SequenceAllocator) Allocate(ctx context.Context, tenantID, lotBase string) (int64, error) {
	key := domain.SequenceKey{TenantID: tenantID, LotBase: lotBase}
	if !key.Valid() {
		return 0, &domain.AllocationError{Key: key, Err: domain.ErrInvalidSequenceKey}
	}

	index, err := a.store.Increment(ctx, key)
	if err != nil {
		return 0, &domain.AllocationError{Key: key, Err: err}
	}
	if index < 1 {
		return 0, &domain.AllocationError{Key: key, Err: fmt.Errorf("store returned index %d", index)}
	}

	return index, nil
}
