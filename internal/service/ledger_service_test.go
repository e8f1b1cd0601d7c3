package service

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/receiptsplit/internal/ledger"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// setupTestServer creates a test server backed by an in-memory SQLite store.
func setupTestServer(t *testing.T) (api.LedgerServiceClient, func()) {
	t.Helper()

	store, err := sqlite.New()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	l, err := ledger.New(context.Background(), store)
	if err != nil {
		store.Close()
		t.Fatalf("failed to create ledger: %v", err)
	}

	path, handler := api.NewLedgerServiceHandler(
		NewLedgerService(l),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	client := api.NewLedgerServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
	}
	return client, cleanup
}

func addPayerWithTotal(t *testing.T, client api.LedgerServiceClient, name string, total float64) (api.Payer, api.Receipt) {
	t.Helper()
	ctx := context.Background()

	payer, err := client.AddPayer(ctx, connect.NewRequest(&api.AddPayerRequest{Name: name}))
	if err != nil {
		t.Fatalf("AddPayer(%q) failed: %v", name, err)
	}
	receipt, err := client.AddReceipt(ctx, connect.NewRequest(&api.AddReceiptRequest{PayerID: payer.Msg.Payer.ID}))
	if err != nil {
		t.Fatalf("AddReceipt failed: %v", err)
	}
	updated, err := client.UpdateReceiptTotal(ctx, connect.NewRequest(&api.UpdateReceiptTotalRequest{
		PayerID:   payer.Msg.Payer.ID,
		ReceiptID: receipt.Msg.Receipt.ID,
		Total:     total,
	}))
	if err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}
	return payer.Msg.Payer, updated.Msg.Receipt
}

func TestLedgerService_Settlement(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	addPayerWithTotal(t, client, "Alice", 100)
	addPayerWithTotal(t, client, "Bob", 50)
	addPayerWithTotal(t, client, "Charlie", 0)

	resp, err := client.ListPayers(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListPayers failed: %v", err)
	}

	settlement := resp.Msg.Settlement
	if settlement.GroupTotal != 150 {
		t.Errorf("expected group total 150, got %v", settlement.GroupTotal)
	}
	if settlement.EqualShare != 50 {
		t.Errorf("expected equal share 50, got %v", settlement.EqualShare)
	}

	want := map[string]float64{"Alice": 50, "Bob": 0, "Charlie": -50}
	if len(resp.Msg.Payers) != 3 {
		t.Fatalf("expected 3 payers, got %d", len(resp.Msg.Payers))
	}
	for i, p := range resp.Msg.Payers {
		if p.ID != int64(i) {
			t.Errorf("expected payers ordered by id, got %d at %d", p.ID, i)
		}
		if math.Abs(p.AmountDue-want[p.Name]) > 0.001 {
			t.Errorf("%s: expected amount due %v, got %v", p.Name, want[p.Name], p.AmountDue)
		}
	}

	if len(settlement.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %+v", settlement.Transfers)
	}
	if tr := settlement.Transfers[0]; tr.From != 2 || tr.To != 0 || tr.Amount != 50 {
		t.Errorf("expected Charlie to pay Alice 50, got %+v", tr)
	}
}

func TestLedgerService_Items(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	payer, receipt := addPayerWithTotal(t, client, "Alice", 20)

	added, err := client.AddReceiptItem(ctx, connect.NewRequest(&api.AddReceiptItemRequest{
		ReceiptID: receipt.ID,
		Name:      "Bread",
		Price:     4.5,
	}))
	if err != nil {
		t.Fatalf("AddReceiptItem failed: %v", err)
	}

	r := added.Msg.Receipt
	if !r.Itemized || len(r.Items) != 2 {
		t.Fatalf("expected manual total to become an item, got %+v", r)
	}
	if r.Items[0].Name != "Item 1" || r.Items[0].Price != 20 {
		t.Errorf("expected first item 'Item 1' at 20, got %+v", r.Items[0])
	}
	if r.Total != 24.5 || added.Msg.Settlement.GroupTotal != 24.5 {
		t.Errorf("expected total 24.5, got receipt %v group %v", r.Total, added.Msg.Settlement.GroupTotal)
	}

	price := 5.5
	updated, err := client.UpdateReceiptItem(ctx, connect.NewRequest(&api.UpdateReceiptItemRequest{
		ReceiptID: receipt.ID,
		ItemID:    added.Msg.Item.ID,
		Price:     &price,
	}))
	if err != nil {
		t.Fatalf("UpdateReceiptItem failed: %v", err)
	}
	if updated.Msg.Item.Name != "Bread" || updated.Msg.Receipt.Total != 25.5 {
		t.Errorf("expected Bread at 5.5 and total 25.5, got %+v total %v", updated.Msg.Item, updated.Msg.Receipt.Total)
	}

	_, err = client.UpdateReceiptTotal(ctx, connect.NewRequest(&api.UpdateReceiptTotalRequest{
		PayerID:   payer.ID,
		ReceiptID: receipt.ID,
		Total:     1,
	}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected failed_precondition on itemized receipt, got %v", err)
	}

	for _, item := range updated.Msg.Receipt.Items {
		if _, err := client.RemoveReceiptItem(ctx, connect.NewRequest(&api.RemoveReceiptItemRequest{
			ReceiptID: receipt.ID,
			ItemID:    item.ID,
		})); err != nil {
			t.Fatalf("RemoveReceiptItem(%s) failed: %v", item.ID, err)
		}
	}

	got, err := client.GetReceipt(ctx, connect.NewRequest(&api.GetReceiptRequest{ReceiptID: receipt.ID}))
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if got.Msg.Receipt.Total != 0 || got.Msg.Receipt.Itemized {
		t.Errorf("expected empty manual receipt, got %+v", got.Msg.Receipt)
	}
}

func TestLedgerService_Taxes(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	payer, receipt := addPayerWithTotal(t, client, "Alice", 100)

	taxes, err := client.GetReceiptTaxes(ctx, connect.NewRequest(&api.GetReceiptTaxesRequest{ReceiptID: receipt.ID}))
	if err != nil {
		t.Fatalf("GetReceiptTaxes failed: %v", err)
	}
	if math.Abs(taxes.Msg.Taxes.Total-114.975) > 1e-9 {
		t.Errorf("expected tax-inclusive total 114.975, got %v", taxes.Msg.Taxes.Total)
	}
	if taxes.Msg.Rates.TPS != 0.05 || taxes.Msg.Rates.TVQ != 0.09975 {
		t.Errorf("expected default rates, got %+v", taxes.Msg.Rates)
	}

	committed, err := client.CommitReceiptTaxes(ctx, connect.NewRequest(&api.CommitReceiptTaxesRequest{
		PayerID:   payer.ID,
		ReceiptID: receipt.ID,
	}))
	if err != nil {
		t.Fatalf("CommitReceiptTaxes failed: %v", err)
	}
	if math.Abs(committed.Msg.Settlement.GroupTotal-114.975) > 1e-9 {
		t.Errorf("expected group total 114.975, got %v", committed.Msg.Settlement.GroupTotal)
	}
}

func TestLedgerService_NotFound(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"GetPayer", func() error {
			_, err := client.GetPayer(ctx, connect.NewRequest(&api.GetPayerRequest{PayerID: 7}))
			return err
		}},
		{"RemovePayer", func() error {
			_, err := client.RemovePayer(ctx, connect.NewRequest(&api.RemovePayerRequest{PayerID: 7}))
			return err
		}},
		{"AddReceipt", func() error {
			_, err := client.AddReceipt(ctx, connect.NewRequest(&api.AddReceiptRequest{PayerID: 7}))
			return err
		}},
		{"GetReceipt", func() error {
			_, err := client.GetReceipt(ctx, connect.NewRequest(&api.GetReceiptRequest{ReceiptID: 7}))
			return err
		}},
		{"RemoveReceiptItem", func() error {
			_, err := client.RemoveReceiptItem(ctx, connect.NewRequest(&api.RemoveReceiptItemRequest{ReceiptID: 7, ItemID: "7-1"}))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := connect.CodeOf(tt.call()); code != connect.CodeNotFound {
				t.Errorf("expected not_found, got %v", code)
			}
		})
	}
}

func TestLedgerService_RemoveAndReset(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	alice, receipt := addPayerWithTotal(t, client, "Alice", 30)
	addPayerWithTotal(t, client, "Bob", 10)

	removed, err := client.RemoveReceipt(ctx, connect.NewRequest(&api.RemoveReceiptRequest{
		PayerID:   alice.ID,
		ReceiptID: receipt.ID,
	}))
	if err != nil {
		t.Fatalf("RemoveReceipt failed: %v", err)
	}
	if removed.Msg.Settlement.GroupTotal != 10 {
		t.Errorf("expected group total 10, got %v", removed.Msg.Settlement.GroupTotal)
	}

	renamed, err := client.RenamePayer(ctx, connect.NewRequest(&api.RenamePayerRequest{PayerID: alice.ID, Name: "Alicia"}))
	if err != nil {
		t.Fatalf("RenamePayer failed: %v", err)
	}
	if renamed.Msg.Payer.Name != "Alicia" || renamed.Msg.Payer.AmountDue != -5 {
		t.Errorf("expected Alicia owing 5, got %+v", renamed.Msg.Payer)
	}

	reset, err := client.Reset(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset.Msg.Settlement.GroupTotal != 0 || len(reset.Msg.Settlement.Balances) != 0 {
		t.Errorf("expected empty settlement, got %+v", reset.Msg.Settlement)
	}

	payer, err := client.AddPayer(ctx, connect.NewRequest(&api.AddPayerRequest{}))
	if err != nil {
		t.Fatalf("AddPayer failed: %v", err)
	}
	if payer.Msg.Payer.ID != 2 || payer.Msg.Payer.Name != "Payer 2" {
		t.Errorf("expected Payer 2 after reset, got %+v", payer.Msg.Payer)
	}

	_, err = client.GetPayer(ctx, connect.NewRequest(&api.GetPayerRequest{PayerID: alice.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected payer %d to stay gone after reset, got %v", alice.ID, err)
	}
}
