package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/port"
)

const idempotencyKeyPrefix = "idempotency:entry:"

type SubmitEntryInput struct {
	TenantID  string `validate:"required,max=36"`
	CreatorID string `validate:"required,max=36"`

	// IdempotencyKey is optional. A token that was already used for an
	// attempt that may have committed is rejected with ErrDuplicateRequest.
	IdempotencyKey string

	Intake domain.Intake
}

// LedgerService is the intake side of the ledger: allocation plus a single
// insert per submission.
type LedgerService struct {
	allocator *SequenceAllocator
	ledger    port.LedgerWriter
	cache     port.CacheRepository
	validate  *validator.Validate
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewLedgerService wires the writer. cache may be nil, in which case
// idempotency tokens are ignored.
func NewLedgerService(allocator *SequenceAllocator, ledger port.LedgerWriter, cache port.CacheRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		allocator: allocator,
		ledger:    ledger,
		cache:     cache,
		validate:  newValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *LedgerService) SubmitEntry(ctx context.Context, in SubmitEntryInput) (*domain.InventoryEntry, error) {
	if err := s.validateSubmission(in); err != nil {
		return nil, err
	}

	release, err := s.claimIdempotency(ctx, in)
	if err != nil {
		return nil, err
	}

	index, err := s.allocator.Allocate(ctx, in.TenantID, in.Intake.LotBase)
	if err != nil {
		release()
		s.logger.Warn("lot index allocation failed",
			zap.String("org_id", in.TenantID),
			zap.String("lot_base", in.Intake.LotBase),
			zap.Error(err),
		)
		return nil, err
	}

	entry := s.composeEntry(in, index)

	if err := s.ledger.InsertEntry(ctx, entry); err != nil {
		// When the outcome is unknown the row may exist, so the token stays
		// claimed and the caller has to re-query before resubmitting.
		if !outcomeUnknown(err) {
			release()
		}
		s.logger.Error("ledger insert failed, lot index consumed",
			zap.String("org_id", in.TenantID),
			zap.String("lot_number", entry.FullLotNumber),
			zap.Error(err),
		)
		return nil, &domain.PersistenceError{LotNumber: entry.FullLotNumber, Err: err}
	}

	s.logger.Info("inventory entry created",
		zap.String("org_id", entry.OrgID),
		zap.String("entry_id", entry.ID),
		zap.String("lot_number", entry.FullLotNumber),
	)
	return &entry, nil
}

func outcomeUnknown(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrOutcomeUnknown)
}

// GetEntry is the tenant-scoped read used to reprint a receipt.
func (s *LedgerService) GetEntry(ctx context.Context, tenantID, id string) (*domain.InventoryEntry, error) {
	if tenantID == "" {
		return nil, &domain.ValidationError{Field: "orgId", Reason: "is required"}
	}
	if id == "" {
		return nil, &domain.ValidationError{Field: "entryId", Reason: "is required"}
	}

	entry, err := s.ledger.FindEntry(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("find entry %s: %w", id, err)
	}
	return entry, nil
}

func (s *LedgerService) validateSubmission(in SubmitEntryInput) error {
	if err := validateStruct(s.validate, in); err != nil {
		return err
	}

	total := in.Intake.CategoryTotal()
	if total > domain.MaxCount {
		return &domain.ValidationError{Field: "actualCount", Reason: "is too large"}
	}
	if in.Intake.ActualCount != nil && int64(*in.Intake.ActualCount) != total {
		return &domain.ValidationError{
			Field:  "actualCount",
			Reason: fmt.Sprintf("is %d but categories add up to %d", *in.Intake.ActualCount, total),
		}
	}
	return nil
}

// claimIdempotency returns a func that frees the token again. Without a
// token or a cache it is a no-op.
func (s *LedgerService) claimIdempotency(ctx context.Context, in SubmitEntryInput) (func(), error) {
	if in.IdempotencyKey == "" || s.cache == nil {
		return func() {}, nil
	}

	key := idempotencyKeyPrefix + in.TenantID + ":" + in.IdempotencyKey
	ok, err := s.cache.SetIdempotency(ctx, key)
	if err != nil {
		return nil, &domain.AllocationError{
			Key: domain.SequenceKey{TenantID: in.TenantID, LotBase: in.Intake.LotBase},
			Err: fmt.Errorf("idempotency check failed: %w", err),
		}
	}
	if !ok {
		return nil, domain.ErrDuplicateRequest
	}

	return func() {
		if err := s.cache.ReleaseIdempotency(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *LedgerService) composeEntry(in SubmitEntryInput, index int64) domain.InventoryEntry {
	intake := in.Intake
	return domain.InventoryEntry{
		ID:                s.newID(),
		OrgID:             in.TenantID,
		CreatedBy:         in.CreatorID,
		FarmerName:        intake.FarmerName,
		FatherName:        intake.FatherName,
		FarmerCount:       intake.FarmerCount,
		LotBase:           intake.LotBase,
		LotIndex:          index,
		FullLotNumber:     domain.FullLotNumber(intake.LotBase, index, intake.FarmerCount),
		CountMota:         intake.Mota,
		CountGulla:        intake.Gulla,
		IsGullaColored:    intake.IsGullaColored,
		CountKetPeice:     intake.KetPeice,
		IsKetPeiceColored: intake.IsKetPeiceColored,
		CountHaara:        intake.Haara,
		IsMarked:          intake.IsMarked,
		MarkName:          intake.MarkName,
		ActualCount:       int(intake.CategoryTotal()),
		CreatedAt:         s.now(),
	}
}
