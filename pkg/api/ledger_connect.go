package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "receiptsplit.v1.LedgerService"

// Procedure paths, suitable for use with an http.ServeMux and for matching
// against connect.Spec.Procedure.
const (
	LedgerServiceListPayersProcedure         = "/receiptsplit.v1.LedgerService/ListPayers"
	LedgerServiceGetPayerProcedure           = "/receiptsplit.v1.LedgerService/GetPayer"
	LedgerServiceAddPayerProcedure           = "/receiptsplit.v1.LedgerService/AddPayer"
	LedgerServiceRenamePayerProcedure        = "/receiptsplit.v1.LedgerService/RenamePayer"
	LedgerServiceRemovePayerProcedure        = "/receiptsplit.v1.LedgerService/RemovePayer"
	LedgerServiceAddReceiptProcedure         = "/receiptsplit.v1.LedgerService/AddReceipt"
	LedgerServiceGetReceiptProcedure         = "/receiptsplit.v1.LedgerService/GetReceipt"
	LedgerServiceRenameReceiptProcedure      = "/receiptsplit.v1.LedgerService/RenameReceipt"
	LedgerServiceUpdateReceiptTotalProcedure = "/receiptsplit.v1.LedgerService/UpdateReceiptTotal"
	LedgerServiceRemoveReceiptProcedure      = "/receiptsplit.v1.LedgerService/RemoveReceipt"
	LedgerServiceItemizeReceiptProcedure     = "/receiptsplit.v1.LedgerService/ItemizeReceipt"
	LedgerServiceAddReceiptItemProcedure     = "/receiptsplit.v1.LedgerService/AddReceiptItem"
	LedgerServiceUpdateReceiptItemProcedure  = "/receiptsplit.v1.LedgerService/UpdateReceiptItem"
	LedgerServiceRemoveReceiptItemProcedure  = "/receiptsplit.v1.LedgerService/RemoveReceiptItem"
	LedgerServiceGetSettlementProcedure      = "/receiptsplit.v1.LedgerService/GetSettlement"
	LedgerServiceGetReceiptTaxesProcedure    = "/receiptsplit.v1.LedgerService/GetReceiptTaxes"
	LedgerServiceCommitReceiptTaxesProcedure = "/receiptsplit.v1.LedgerService/CommitReceiptTaxes"
	LedgerServiceResetProcedure              = "/receiptsplit.v1.LedgerService/Reset"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	ListPayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListPayersResponse], error)
	GetPayer(context.Context, *connect.Request[GetPayerRequest]) (*connect.Response[PayerResponse], error)
	AddPayer(context.Context, *connect.Request[AddPayerRequest]) (*connect.Response[PayerResponse], error)
	RenamePayer(context.Context, *connect.Request[RenamePayerRequest]) (*connect.Response[PayerResponse], error)
	RemovePayer(context.Context, *connect.Request[RemovePayerRequest]) (*connect.Response[SettlementResponse], error)
	AddReceipt(context.Context, *connect.Request[AddReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	RenameReceipt(context.Context, *connect.Request[RenameReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	UpdateReceiptTotal(context.Context, *connect.Request[UpdateReceiptTotalRequest]) (*connect.Response[ReceiptResponse], error)
	RemoveReceipt(context.Context, *connect.Request[RemoveReceiptRequest]) (*connect.Response[SettlementResponse], error)
	ItemizeReceipt(context.Context, *connect.Request[ItemizeReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	AddReceiptItem(context.Context, *connect.Request[AddReceiptItemRequest]) (*connect.Response[ItemResponse], error)
	UpdateReceiptItem(context.Context, *connect.Request[UpdateReceiptItemRequest]) (*connect.Response[ItemResponse], error)
	RemoveReceiptItem(context.Context, *connect.Request[RemoveReceiptItemRequest]) (*connect.Response[ReceiptResponse], error)
	GetSettlement(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error)
	GetReceiptTaxes(context.Context, *connect.Request[GetReceiptTaxesRequest]) (*connect.Response[ReceiptTaxesResponse], error)
	CommitReceiptTaxes(context.Context, *connect.Request[CommitReceiptTaxesRequest]) (*connect.Response[ReceiptResponse], error)
	// Reset removes every payer. IDs are not reused afterwards.
	Reset(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
// The JSON Codec is always installed.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceListPayersProcedure:         connect.NewUnaryHandler(LedgerServiceListPayersProcedure, svc.ListPayers, opts...),
		LedgerServiceGetPayerProcedure:           connect.NewUnaryHandler(LedgerServiceGetPayerProcedure, svc.GetPayer, opts...),
		LedgerServiceAddPayerProcedure:           connect.NewUnaryHandler(LedgerServiceAddPayerProcedure, svc.AddPayer, opts...),
		LedgerServiceRenamePayerProcedure:        connect.NewUnaryHandler(LedgerServiceRenamePayerProcedure, svc.RenamePayer, opts...),
		LedgerServiceRemovePayerProcedure:        connect.NewUnaryHandler(LedgerServiceRemovePayerProcedure, svc.RemovePayer, opts...),
		LedgerServiceAddReceiptProcedure:         connect.NewUnaryHandler(LedgerServiceAddReceiptProcedure, svc.AddReceipt, opts...),
		LedgerServiceGetReceiptProcedure:         connect.NewUnaryHandler(LedgerServiceGetReceiptProcedure, svc.GetReceipt, opts...),
		LedgerServiceRenameReceiptProcedure:      connect.NewUnaryHandler(LedgerServiceRenameReceiptProcedure, svc.RenameReceipt, opts...),
		LedgerServiceUpdateReceiptTotalProcedure: connect.NewUnaryHandler(LedgerServiceUpdateReceiptTotalProcedure, svc.UpdateReceiptTotal, opts...),
		LedgerServiceRemoveReceiptProcedure:      connect.NewUnaryHandler(LedgerServiceRemoveReceiptProcedure, svc.RemoveReceipt, opts...),
		LedgerServiceItemizeReceiptProcedure:     connect.NewUnaryHandler(LedgerServiceItemizeReceiptProcedure, svc.ItemizeReceipt, opts...),
		LedgerServiceAddReceiptItemProcedure:     connect.NewUnaryHandler(LedgerServiceAddReceiptItemProcedure, svc.AddReceiptItem, opts...),
		LedgerServiceUpdateReceiptItemProcedure:  connect.NewUnaryHandler(LedgerServiceUpdateReceiptItemProcedure, svc.UpdateReceiptItem, opts...),
		LedgerServiceRemoveReceiptItemProcedure:  connect.NewUnaryHandler(LedgerServiceRemoveReceiptItemProcedure, svc.RemoveReceiptItem, opts...),
		LedgerServiceGetSettlementProcedure:      connect.NewUnaryHandler(LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		LedgerServiceGetReceiptTaxesProcedure:    connect.NewUnaryHandler(LedgerServiceGetReceiptTaxesProcedure, svc.GetReceiptTaxes, opts...),
		LedgerServiceCommitReceiptTaxesProcedure: connect.NewUnaryHandler(LedgerServiceCommitReceiptTaxesProcedure, svc.CommitReceiptTaxes, opts...),
		LedgerServiceResetProcedure:              connect.NewUnaryHandler(LedgerServiceResetProcedure, svc.Reset, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// LedgerServiceClient is a typed client for the LedgerService.
type LedgerServiceClient interface {
	ListPayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListPayersResponse], error)
	GetPayer(context.Context, *connect.Request[GetPayerRequest]) (*connect.Response[PayerResponse], error)
	AddPayer(context.Context, *connect.Request[AddPayerRequest]) (*connect.Response[PayerResponse], error)
	RenamePayer(context.Context, *connect.Request[RenamePayerRequest]) (*connect.Response[PayerResponse], error)
	RemovePayer(context.Context, *connect.Request[RemovePayerRequest]) (*connect.Response[SettlementResponse], error)
	AddReceipt(context.Context, *connect.Request[AddReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	RenameReceipt(context.Context, *connect.Request[RenameReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	UpdateReceiptTotal(context.Context, *connect.Request[UpdateReceiptTotalRequest]) (*connect.Response[ReceiptResponse], error)
	RemoveReceipt(context.Context, *connect.Request[RemoveReceiptRequest]) (*connect.Response[SettlementResponse], error)
	ItemizeReceipt(context.Context, *connect.Request[ItemizeReceiptRequest]) (*connect.Response[ReceiptResponse], error)
	AddReceiptItem(context.Context, *connect.Request[AddReceiptItemRequest]) (*connect.Response[ItemResponse], error)
	UpdateReceiptItem(context.Context, *connect.Request[UpdateReceiptItemRequest]) (*connect.Response[ItemResponse], error)
	RemoveReceiptItem(context.Context, *connect.Request[RemoveReceiptItemRequest]) (*connect.Response[ReceiptResponse], error)
	GetSettlement(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error)
	GetReceiptTaxes(context.Context, *connect.Request[GetReceiptTaxesRequest]) (*connect.Response[ReceiptTaxesResponse], error)
	CommitReceiptTaxes(context.Context, *connect.Request[CommitReceiptTaxesRequest]) (*connect.Response[ReceiptResponse], error)
	Reset(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080). The JSON Codec is always installed.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		listPayers:         connect.NewClient[emptypb.Empty, ListPayersResponse](httpClient, baseURL+LedgerServiceListPayersProcedure, opts...),
		getPayer:           connect.NewClient[GetPayerRequest, PayerResponse](httpClient, baseURL+LedgerServiceGetPayerProcedure, opts...),
		addPayer:           connect.NewClient[AddPayerRequest, PayerResponse](httpClient, baseURL+LedgerServiceAddPayerProcedure, opts...),
		renamePayer:        connect.NewClient[RenamePayerRequest, PayerResponse](httpClient, baseURL+LedgerServiceRenamePayerProcedure, opts...),
		removePayer:        connect.NewClient[RemovePayerRequest, SettlementResponse](httpClient, baseURL+LedgerServiceRemovePayerProcedure, opts...),
		addReceipt:         connect.NewClient[AddReceiptRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceAddReceiptProcedure, opts...),
		getReceipt:         connect.NewClient[GetReceiptRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceGetReceiptProcedure, opts...),
		renameReceipt:      connect.NewClient[RenameReceiptRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceRenameReceiptProcedure, opts...),
		updateReceiptTotal: connect.NewClient[UpdateReceiptTotalRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceUpdateReceiptTotalProcedure, opts...),
		removeReceipt:      connect.NewClient[RemoveReceiptRequest, SettlementResponse](httpClient, baseURL+LedgerServiceRemoveReceiptProcedure, opts...),
		itemizeReceipt:     connect.NewClient[ItemizeReceiptRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceItemizeReceiptProcedure, opts...),
		addReceiptItem:     connect.NewClient[AddReceiptItemRequest, ItemResponse](httpClient, baseURL+LedgerServiceAddReceiptItemProcedure, opts...),
		updateReceiptItem:  connect.NewClient[UpdateReceiptItemRequest, ItemResponse](httpClient, baseURL+LedgerServiceUpdateReceiptItemProcedure, opts...),
		removeReceiptItem:  connect.NewClient[RemoveReceiptItemRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceRemoveReceiptItemProcedure, opts...),
		getSettlement:      connect.NewClient[emptypb.Empty, SettlementResponse](httpClient, baseURL+LedgerServiceGetSettlementProcedure, opts...),
		getReceiptTaxes:    connect.NewClient[GetReceiptTaxesRequest, ReceiptTaxesResponse](httpClient, baseURL+LedgerServiceGetReceiptTaxesProcedure, opts...),
		commitReceiptTaxes: connect.NewClient[CommitReceiptTaxesRequest, ReceiptResponse](httpClient, baseURL+LedgerServiceCommitReceiptTaxesProcedure, opts...),
		reset:              connect.NewClient[emptypb.Empty, SettlementResponse](httpClient, baseURL+LedgerServiceResetProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	listPayers         *connect.Client[emptypb.Empty, ListPayersResponse]
	getPayer           *connect.Client[GetPayerRequest, PayerResponse]
	addPayer           *connect.Client[AddPayerRequest, PayerResponse]
	renamePayer        *connect.Client[RenamePayerRequest, PayerResponse]
	removePayer        *connect.Client[RemovePayerRequest, SettlementResponse]
	addReceipt         *connect.Client[AddReceiptRequest, ReceiptResponse]
	getReceipt         *connect.Client[GetReceiptRequest, ReceiptResponse]
	renameReceipt      *connect.Client[RenameReceiptRequest, ReceiptResponse]
	updateReceiptTotal *connect.Client[UpdateReceiptTotalRequest, ReceiptResponse]
	removeReceipt      *connect.Client[RemoveReceiptRequest, SettlementResponse]
	itemizeReceipt     *connect.Client[ItemizeReceiptRequest, ReceiptResponse]
	addReceiptItem     *connect.Client[AddReceiptItemRequest, ItemResponse]
	updateReceiptItem  *connect.Client[UpdateReceiptItemRequest, ItemResponse]
	removeReceiptItem  *connect.Client[RemoveReceiptItemRequest, ReceiptResponse]
	getSettlement      *connect.Client[emptypb.Empty, SettlementResponse]
	getReceiptTaxes    *connect.Client[GetReceiptTaxesRequest, ReceiptTaxesResponse]
	commitReceiptTaxes *connect.Client[CommitReceiptTaxesRequest, ReceiptResponse]
	reset              *connect.Client[emptypb.Empty, SettlementResponse]
}

func (c *ledgerServiceClient) ListPayers(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListPayersResponse], error) {
	return c.listPayers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPayer(ctx context.Context, req *connect.Request[GetPayerRequest]) (*connect.Response[PayerResponse], error) {
	return c.getPayer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddPayer(ctx context.Context, req *connect.Request[AddPayerRequest]) (*connect.Response[PayerResponse], error) {
	return c.addPayer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RenamePayer(ctx context.Context, req *connect.Request[RenamePayerRequest]) (*connect.Response[PayerResponse], error) {
	return c.renamePayer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemovePayer(ctx context.Context, req *connect.Request[RemovePayerRequest]) (*connect.Response[SettlementResponse], error) {
	return c.removePayer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddReceipt(ctx context.Context, req *connect.Request[AddReceiptRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.addReceipt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetReceipt(ctx context.Context, req *connect.Request[GetReceiptRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RenameReceipt(ctx context.Context, req *connect.Request[RenameReceiptRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.renameReceipt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateReceiptTotal(ctx context.Context, req *connect.Request[UpdateReceiptTotalRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.updateReceiptTotal.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveReceipt(ctx context.Context, req *connect.Request[RemoveReceiptRequest]) (*connect.Response[SettlementResponse], error) {
	return c.removeReceipt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ItemizeReceipt(ctx context.Context, req *connect.Request[ItemizeReceiptRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.itemizeReceipt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddReceiptItem(ctx context.Context, req *connect.Request[AddReceiptItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.addReceiptItem.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateReceiptItem(ctx context.Context, req *connect.Request[UpdateReceiptItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.updateReceiptItem.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveReceiptItem(ctx context.Context, req *connect.Request[RemoveReceiptItemRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.removeReceiptItem.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetReceiptTaxes(ctx context.Context, req *connect.Request[GetReceiptTaxesRequest]) (*connect.Response[ReceiptTaxesResponse], error) {
	return c.getReceiptTaxes.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CommitReceiptTaxes(ctx context.Context, req *connect.Request[CommitReceiptTaxesRequest]) (*connect.Response[ReceiptResponse], error) {
	return c.commitReceiptTaxes.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Reset(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[SettlementResponse], error) {
	return c.reset.CallUnary(ctx, req)
}
