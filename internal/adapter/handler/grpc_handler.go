package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/core/service"
)

type GRPCHandler struct {
	ledger *service.LedgerService
	admin  *service.LedgerAdminService
}

func NewGRPCHandler(ledger *service.LedgerService, admin *service.LedgerAdminService) *GRPCHandler {
	return &GRPCHandler{ledger: ledger, admin: admin}
}

func (h *GRPCHandler) SubmitEntry(ctx context.Context, req *SubmitEntryRequest) (*SubmitEntryResponse, error) {
	in := req.Intake
	entry, err := h.ledger.SubmitEntry(ctx, service.SubmitEntryInput{
		TenantID:       req.OrgID,
		CreatorID:      req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		Intake: domain.Intake{
			FarmerName:        in.FarmerName,
			FatherName:        in.FatherName,
			FarmerCount:       in.FarmerCount,
			LotBase:           in.LotBase,
			Mota:              in.Mota,
			Gulla:             in.Gulla,
			IsGullaColored:    in.IsGullaColored,
			KetPeice:          in.KetPeice,
			IsKetPeiceColored: in.IsKetPeiceColored,
			Haara:             in.Haara,
			IsMarked:          in.IsMarked,
			MarkName:          in.MarkName,
			ActualCount:       in.ActualCount,
		},
	})
	if err != nil {
		return nil, grpcError(err)
	}

	return &SubmitEntryResponse{Entry: *entry, LotNumber: entry.FullLotNumber}, nil
}

func (h *GRPCHandler) GetEntry(ctx context.Context, req *GetEntryRequest) (*GetEntryResponse, error) {
	entry, err := h.ledger.GetEntry(ctx, req.OrgID, req.EntryID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &GetEntryResponse{Entry: *entry}, nil
}

func (h *GRPCHandler) ListEntries(ctx context.Context, req *ListEntriesRequest) (*ListEntriesResponse, error) {
	entries, err := h.admin.ListEntries(ctx, req.OrgID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &ListEntriesResponse{Entries: entries}, nil
}

func (h *GRPCHandler) DeleteEntry(ctx context.Context, req *DeleteEntryRequest) (*DeleteEntryResponse, error) {
	if err := h.admin.DeleteEntry(ctx, req.EntryID); err != nil {
		return nil, grpcError(err)
	}
	return &DeleteEntryResponse{}, nil
}

func grpcError(err error) error {
	var valErr *domain.ValidationError
	var allocErr *domain.AllocationError
	var persistErr *domain.PersistenceError

	switch {
	case errors.As(err, &valErr):
		return status.Error(codes.InvalidArgument, valErr.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, "duplicate request")
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.As(err, &allocErr):
		return status.Error(codes.Unavailable, "could not allocate lot number")
	case errors.As(err, &persistErr):
		return status.Errorf(codes.Internal, "entry %s not saved", persistErr.LotNumber)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryLogger logs every call with its status code.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		if status.Code(err) == codes.Internal || status.Code(err) == codes.Unavailable {
			logger.Error("grpc request", fields...)
		} else {
			logger.Info("grpc request", fields...)
		}
		return resp, err
	}
}
