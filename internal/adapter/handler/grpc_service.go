package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

const ledgerServiceName = "coldstorage.ledger.v1.LedgerService"

type SubmitEntryRequest struct {
	OrgID          string       `json:"orgId"`
	UserID         string       `json:"userId"`
	IdempotencyKey string       `json:"idempotencyKey,omitempty"`
	Intake         IntakeFields `json:"intake"`
}

type IntakeFields struct {
	FarmerName        string `json:"farmerName"`
	FatherName        string `json:"fatherName"`
	FarmerCount       int    `json:"farmerCount"`
	LotBase           string `json:"lotBase"`
	ActualCount       *int   `json:"actualCount,omitempty"`
	Mota              int    `json:"mota"`
	Gulla             int    `json:"gulla"`
	IsGullaColored    bool   `json:"isGullaColored"`
	KetPeice          int    `json:"ketpeice"`
	IsKetPeiceColored bool   `json:"isKetPeiceColored"`
	Haara             int    `json:"haara"`
	IsMarked          bool   `json:"isMarked"`
	MarkName          string `json:"markName"`
}

type SubmitEntryResponse struct {
	Entry     domain.InventoryEntry `json:"entry"`
	LotNumber string                `json:"lotNumber"`
}

type GetEntryRequest struct {
	OrgID   string `json:"orgId"`
	EntryID string `json:"entryId"`
}

type GetEntryResponse struct {
	Entry domain.InventoryEntry `json:"entry"`
}

type ListEntriesRequest struct {
	OrgID string `json:"orgId"`
}

type ListEntriesResponse struct {
	Entries []domain.EntryView `json:"entries"`
}

type DeleteEntryRequest struct {
	EntryID string `json:"entryId"`
}

type DeleteEntryResponse struct{}

// LedgerServer is the server side of coldstorage.ledger.v1.LedgerService.
type LedgerServer interface {
	SubmitEntry(context.Context, *SubmitEntryRequest) (*SubmitEntryResponse, error)
	GetEntry(context.Context, *GetEntryRequest) (*GetEntryResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
}

func unaryMethod[Req, Resp any](name string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ledgerServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ledgerServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("SubmitEntry", LedgerServer.SubmitEntry),
		unaryMethod("GetEntry", LedgerServer.GetEntry),
		unaryMethod("ListEntries", LedgerServer.ListEntries),
		unaryMethod("DeleteEntry", LedgerServer.DeleteEntry),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

// LedgerClient calls LedgerService using the JSON codec.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func (c *LedgerClient) SubmitEntry(ctx context.Context, in *SubmitEntryRequest, opts ...grpc.CallOption) (*SubmitEntryResponse, error) {
	out := new(SubmitEntryResponse)
	return out, c.invoke(ctx, "SubmitEntry", in, out, opts)
}

func (c *LedgerClient) GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*GetEntryResponse, error) {
	out := new(GetEntryResponse)
	return out, c.invoke(ctx, "GetEntry", in, out, opts)
}

func (c *LedgerClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	out := new(ListEntriesResponse)
	return out, c.invoke(ctx, "ListEntries", in, out, opts)
}

func (c *LedgerClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error) {
	out := new(DeleteEntryResponse)
	return out, c.invoke(ctx, "DeleteEntry", in, out, opts)
}

func (c *LedgerClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ledgerServiceName+"/"+method, in, out, opts...)
}
