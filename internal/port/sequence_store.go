package port

import (
	"context"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

type SequenceStore interface {
	// Increment atomically advances the counter for key and returns the new
	// value. An unseen key starts at 0, so its first Increment returns 1.
	// A returned error means the counter was not advanced.
	Increment(ctx context.Context, key domain.SequenceKey) (int64, error)
}
