package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/receiptsplit/internal/ledger"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// Ensure LedgerService implements api.LedgerServiceHandler
var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService on top of a ledger.Service.
type LedgerService struct {
	ledger *ledger.Service
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(l *ledger.Service) *LedgerService {
	return &LedgerService{ledger: l}
}

// toConnectError maps ledger errors onto Connect codes.
// Logging is left to middleware.LoggingInterceptor, which sees the code.
func toConnectError(op string, err error) error {
	switch {
	case ledger.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrReceiptItemized):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: %w", op, err))
	}
}

// receiptResponse reloads a receipt after a mutation.
func (s *LedgerService) receiptResponse(ctx context.Context, op string, receiptID int64) (*connect.Response[api.ReceiptResponse], error) {
	r, err := s.ledger.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, toConnectError(op, err)
	}
	return connect.NewResponse(&api.ReceiptResponse{
		Receipt:    toAPIReceipt(r),
		Settlement: toAPISettlement(s.ledger.Settlement()),
	}), nil
}

func (s *LedgerService) payerResponse(ctx context.Context, op string, payerID int64) (*connect.Response[api.PayerResponse], error) {
	p, err := s.ledger.GetPayer(ctx, payerID)
	if err != nil {
		return nil, toConnectError(op, err)
	}
	return connect.NewResponse(&api.PayerResponse{
		Payer:      toAPIPayer(p),
		Settlement: toAPISettlement(s.ledger.Settlement()),
	}), nil
}

func (s *LedgerService) settlementResponse() *connect.Response[api.SettlementResponse] {
	return connect.NewResponse(&api.SettlementResponse{Settlement: toAPISettlement(s.ledger.Settlement())})
}

// ListPayers returns every payer ordered by ID.
func (s *LedgerService) ListPayers(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListPayersResponse], error) {
	payers, err := s.ledger.ListPayers(ctx)
	if err != nil {
		return nil, toConnectError("ListPayers", err)
	}
	return connect.NewResponse(&api.ListPayersResponse{
		Payers:     toAPIPayers(payers),
		Settlement: toAPISettlement(s.ledger.Settlement()),
	}), nil
}

// GetPayer returns one payer.
func (s *LedgerService) GetPayer(ctx context.Context, req *connect.Request[api.GetPayerRequest]) (*connect.Response[api.PayerResponse], error) {
	return s.payerResponse(ctx, "GetPayer", req.Msg.PayerID)
}

// AddPayer creates a payer.
func (s *LedgerService) AddPayer(ctx context.Context, req *connect.Request[api.AddPayerRequest]) (*connect.Response[api.PayerResponse], error) {
	p, err := s.ledger.AddPayer(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError("AddPayer", err)
	}
	slog.Info("Payer added", "payer_id", p.ID, "name", p.Name)
	return s.payerResponse(ctx, "AddPayer", p.ID)
}

// RenamePayer replaces a payer's name.
func (s *LedgerService) RenamePayer(ctx context.Context, req *connect.Request[api.RenamePayerRequest]) (*connect.Response[api.PayerResponse], error) {
	if err := s.ledger.RenamePayer(ctx, req.Msg.PayerID, req.Msg.Name); err != nil {
		return nil, toConnectError("RenamePayer", err)
	}
	return s.payerResponse(ctx, "RenamePayer", req.Msg.PayerID)
}

// RemovePayer deletes a payer and its receipts.
func (s *LedgerService) RemovePayer(ctx context.Context, req *connect.Request[api.RemovePayerRequest]) (*connect.Response[api.SettlementResponse], error) {
	if err := s.ledger.RemovePayer(ctx, req.Msg.PayerID); err != nil {
		return nil, toConnectError("RemovePayer", err)
	}
	slog.Info("Payer removed", "payer_id", req.Msg.PayerID)
	return s.settlementResponse(), nil
}

// AddReceipt appends an empty receipt to a payer.
func (s *LedgerService) AddReceipt(ctx context.Context, req *connect.Request[api.AddReceiptRequest]) (*connect.Response[api.ReceiptResponse], error) {
	r, err := s.ledger.AddReceipt(ctx, req.Msg.PayerID)
	if err != nil {
		return nil, toConnectError("AddReceipt", err)
	}
	slog.Info("Receipt added", "payer_id", r.PayerID, "receipt_id", r.ID)
	return s.receiptResponse(ctx, "AddReceipt", r.ID)
}

// GetReceipt returns one receipt.
func (s *LedgerService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.ReceiptResponse], error) {
	return s.receiptResponse(ctx, "GetReceipt", req.Msg.ReceiptID)
}

// RenameReceipt replaces a receipt's name.
func (s *LedgerService) RenameReceipt(ctx context.Context, req *connect.Request[api.RenameReceiptRequest]) (*connect.Response[api.ReceiptResponse], error) {
	if err := s.ledger.RenameReceipt(ctx, req.Msg.ReceiptID, req.Msg.Name); err != nil {
		return nil, toConnectError("RenameReceipt", err)
	}
	return s.receiptResponse(ctx, "RenameReceipt", req.Msg.ReceiptID)
}

// UpdateReceiptTotal sets the manual total of a receipt without items.
func (s *LedgerService) UpdateReceiptTotal(ctx context.Context, req *connect.Request[api.UpdateReceiptTotalRequest]) (*connect.Response[api.ReceiptResponse], error) {
	if err := s.ledger.UpdateReceiptTotal(ctx, req.Msg.PayerID, req.Msg.ReceiptID, req.Msg.Total); err != nil {
		return nil, toConnectError("UpdateReceiptTotal", err)
	}
	return s.receiptResponse(ctx, "UpdateReceiptTotal", req.Msg.ReceiptID)
}

// RemoveReceipt removes a receipt from its payer.
func (s *LedgerService) RemoveReceipt(ctx context.Context, req *connect.Request[api.RemoveReceiptRequest]) (*connect.Response[api.SettlementResponse], error) {
	if err := s.ledger.RemoveReceipt(ctx, req.Msg.PayerID, req.Msg.ReceiptID); err != nil {
		return nil, toConnectError("RemoveReceipt", err)
	}
	slog.Info("Receipt removed", "payer_id", req.Msg.PayerID, "receipt_id", req.Msg.ReceiptID)
	return s.settlementResponse(), nil
}

// ItemizeReceipt turns a manual total into a single item.
func (s *LedgerService) ItemizeReceipt(ctx context.Context, req *connect.Request[api.ItemizeReceiptRequest]) (*connect.Response[api.ReceiptResponse], error) {
	if _, err := s.ledger.ItemizeReceipt(ctx, req.Msg.ReceiptID); err != nil {
		return nil, toConnectError("ItemizeReceipt", err)
	}
	return s.receiptResponse(ctx, "ItemizeReceipt", req.Msg.ReceiptID)
}

func (s *LedgerService) itemResponse(ctx context.Context, op string, receiptID int64, item *models.ReceiptItem) (*connect.Response[api.ItemResponse], error) {
	r, err := s.ledger.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, toConnectError(op, err)
	}
	return connect.NewResponse(&api.ItemResponse{
		Item:       toAPIItem(*item),
		Receipt:    toAPIReceipt(r),
		Settlement: toAPISettlement(s.ledger.Settlement()),
	}), nil
}

// AddReceiptItem appends an item to a receipt.
func (s *LedgerService) AddReceiptItem(ctx context.Context, req *connect.Request[api.AddReceiptItemRequest]) (*connect.Response[api.ItemResponse], error) {
	item, err := s.ledger.AddReceiptItem(ctx, req.Msg.ReceiptID, req.Msg.Name, req.Msg.Price)
	if err != nil {
		return nil, toConnectError("AddReceiptItem", err)
	}
	slog.Debug("Item added", "receipt_id", req.Msg.ReceiptID, "item_id", item.ID, "price", item.Price)
	return s.itemResponse(ctx, "AddReceiptItem", req.Msg.ReceiptID, item)
}

// UpdateReceiptItem renames and/or reprices an item.
func (s *LedgerService) UpdateReceiptItem(ctx context.Context, req *connect.Request[api.UpdateReceiptItemRequest]) (*connect.Response[api.ItemResponse], error) {
	update := models.ItemUpdate{Name: req.Msg.Name, Price: req.Msg.Price}
	item, err := s.ledger.UpdateReceiptItem(ctx, req.Msg.ReceiptID, req.Msg.ItemID, update)
	if err != nil {
		return nil, toConnectError("UpdateReceiptItem", err)
	}
	return s.itemResponse(ctx, "UpdateReceiptItem", req.Msg.ReceiptID, item)
}

// RemoveReceiptItem removes an item from a receipt.
func (s *LedgerService) RemoveReceiptItem(ctx context.Context, req *connect.Request[api.RemoveReceiptItemRequest]) (*connect.Response[api.ReceiptResponse], error) {
	if err := s.ledger.RemoveReceiptItem(ctx, req.Msg.ReceiptID, req.Msg.ItemID); err != nil {
		return nil, toConnectError("RemoveReceiptItem", err)
	}
	return s.receiptResponse(ctx, "RemoveReceiptItem", req.Msg.ReceiptID)
}

// GetSettlement returns the current settlement.
func (s *LedgerService) GetSettlement(_ context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error) {
	return s.settlementResponse(), nil
}

// GetReceiptTaxes previews a receipt total with taxes applied.
func (s *LedgerService) GetReceiptTaxes(ctx context.Context, req *connect.Request[api.GetReceiptTaxesRequest]) (*connect.Response[api.ReceiptTaxesResponse], error) {
	taxes, err := s.ledger.ReceiptTaxes(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, toConnectError("GetReceiptTaxes", err)
	}
	rates := s.ledger.TaxRates()
	return connect.NewResponse(&api.ReceiptTaxesResponse{
		ReceiptID: req.Msg.ReceiptID,
		Rates:     api.TaxRates{TPS: rates.TPS, TVQ: rates.TVQ},
		Taxes:     toAPITaxes(taxes),
	}), nil
}

// CommitReceiptTaxes stores the tax-inclusive total on a manual receipt.
func (s *LedgerService) CommitReceiptTaxes(ctx context.Context, req *connect.Request[api.CommitReceiptTaxesRequest]) (*connect.Response[api.ReceiptResponse], error) {
	r, err := s.ledger.CommitTaxInclusiveTotal(ctx, req.Msg.PayerID, req.Msg.ReceiptID)
	if err != nil {
		return nil, toConnectError("CommitReceiptTaxes", err)
	}
	slog.Info("Taxes committed", "receipt_id", r.ID, "total", r.Total)
	return s.receiptResponse(ctx, "CommitReceiptTaxes", r.ID)
}

// Reset empties the ledger.
func (s *LedgerService) Reset(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.SettlementResponse], error) {
	if err := s.ledger.Reset(ctx); err != nil {
		return nil, toConnectError("Reset", err)
	}
	slog.Info("Ledger reset")
	return s.settlementResponse(), nil
}
