// Package storagetest provides a conformance suite every storage.Store must pass.
package storagetest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// Run exercises a store built fresh by newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, ctx context.Context, s storage.Store)
	}{
		{"payer IDs start at zero and are never reused", testPayerIDs},
		{"unknown IDs return ErrNotFound", testNotFound},
		{"rename payer", testRenamePayer},
		{"snapshots are copies", testCopyOnRead},
		{"receipt IDs are global", testReceiptIDs},
		{"manual total", testManualTotal},
		{"items drive the total", testItemsDriveTotal},
		{"total rejected while itemized", testTotalRejectedWhileItemized},
		{"last item removed falls back to zero", testLastItemRemoved},
		{"add then remove restores total", testAddRemoveRoundTrip},
		{"itemize manual total", testItemize},
		{"update item", testUpdateItem},
		{"NaN price counts as zero", testNaNPrice},
		{"remove receipt", testRemoveReceipt},
		{"delete payer cascades", testDeletePayerCascades},
		{"reset", testReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			tt.fn(t, context.Background(), s)
		})
	}
}

func mustPayer(t *testing.T, ctx context.Context, s storage.Store, name string) *models.Payer {
	t.Helper()
	p, err := s.CreatePayer(ctx, name)
	if err != nil {
		t.Fatalf("CreatePayer failed: %v", err)
	}
	return p
}

func mustReceipt(t *testing.T, ctx context.Context, s storage.Store, payerID int64) *models.Receipt {
	t.Helper()
	r, err := s.AddReceipt(ctx, payerID)
	if err != nil {
		t.Fatalf("AddReceipt failed: %v", err)
	}
	return r
}

func mustItem(t *testing.T, ctx context.Context, s storage.Store, receiptID int64, name string, price float64) *models.ReceiptItem {
	t.Helper()
	item, err := s.AddReceiptItem(ctx, receiptID, name, price)
	if err != nil {
		t.Fatalf("AddReceiptItem failed: %v", err)
	}
	return item
}

func receiptTotal(t *testing.T, ctx context.Context, s storage.Store, receiptID int64) float64 {
	t.Helper()
	r, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	return r.Total
}

func testPayerIDs(t *testing.T, ctx context.Context, s storage.Store) {
	a := mustPayer(t, ctx, s, "Alice")
	b := mustPayer(t, ctx, s, "Bob")
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected IDs 0 and 1, got %d and %d", a.ID, b.ID)
	}
	if len(a.Receipts) != 0 {
		t.Errorf("new payer has %d receipts", len(a.Receipts))
	}

	if err := s.DeletePayer(ctx, b.ID); err != nil {
		t.Fatalf("DeletePayer failed: %v", err)
	}
	c := mustPayer(t, ctx, s, "Charlie")
	if c.ID != 2 {
		t.Errorf("expected ID 2 after deletion, got %d", c.ID)
	}
}

func testNotFound(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)

	checks := map[string]error{}
	_, checks["GetPayer"] = s.GetPayer(ctx, 42)
	checks["RenamePayer"] = s.RenamePayer(ctx, 42, "x")
	checks["DeletePayer"] = s.DeletePayer(ctx, 42)
	_, checks["AddReceipt"] = s.AddReceipt(ctx, 42)
	_, checks["GetReceipt"] = s.GetReceipt(ctx, 42)
	checks["RenameReceipt"] = s.RenameReceipt(ctx, 42, "x")
	checks["UpdateReceiptTotal/payer"] = s.UpdateReceiptTotal(ctx, 42, r.ID, 1)
	checks["UpdateReceiptTotal/receipt"] = s.UpdateReceiptTotal(ctx, p.ID, 42, 1)
	checks["RemoveReceipt"] = s.RemoveReceipt(ctx, p.ID, 42)
	_, checks["ItemizeReceipt"] = s.ItemizeReceipt(ctx, 42)
	_, checks["AddReceiptItem"] = s.AddReceiptItem(ctx, 42, "x", 1)
	_, checks["UpdateReceiptItem"] = s.UpdateReceiptItem(ctx, r.ID, "nope", models.ItemUpdate{})
	checks["RemoveReceiptItem"] = s.RemoveReceiptItem(ctx, r.ID, "nope")

	for op, err := range checks {
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", op, err)
		}
	}

	// A receipt is only reachable through its own payer
	q := mustPayer(t, ctx, s, "Bob")
	if err := s.UpdateReceiptTotal(ctx, q.ID, r.ID, 5); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateReceiptTotal via wrong payer: expected ErrNotFound, got %v", err)
	}
	if err := s.RemoveReceipt(ctx, q.ID, r.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("RemoveReceipt via wrong payer: expected ErrNotFound, got %v", err)
	}
	if total := receiptTotal(t, ctx, s, r.ID); total != 0 {
		t.Errorf("receipt total changed to %v by a rejected call", total)
	}
}

func testRenamePayer(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	if err := s.RenamePayer(ctx, p.ID, "Alicia"); err != nil {
		t.Fatalf("RenamePayer failed: %v", err)
	}
	got, err := s.GetPayer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayer failed: %v", err)
	}
	if got.Name != "Alicia" {
		t.Errorf("expected name Alicia, got %q", got.Name)
	}
}

func testCopyOnRead(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	mustItem(t, ctx, s, r.ID, "Bread", 3)

	all, err := s.ListPayers(ctx)
	if err != nil {
		t.Fatalf("ListPayers failed: %v", err)
	}
	all[p.ID].Name = "Mallory"
	all[p.ID].Receipts[0].Total = 999
	all[p.ID].Receipts[0].Items[0].Price = 999
	delete(all, p.ID)
	all[77] = &models.Payer{ID: 77}

	got, err := s.GetPayer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayer failed: %v", err)
	}
	if got.Name != "Alice" || got.Receipts[0].Total != 3 || got.Receipts[0].Items[0].Price != 3 {
		t.Errorf("store mutated through snapshot: %+v", got)
	}
	again, _ := s.ListPayers(ctx)
	if len(again) != 1 {
		t.Errorf("expected 1 payer, got %d", len(again))
	}
}

func testReceiptIDs(t *testing.T, ctx context.Context, s storage.Store) {
	a := mustPayer(t, ctx, s, "Alice")
	b := mustPayer(t, ctx, s, "Bob")

	r0 := mustReceipt(t, ctx, s, a.ID)
	r1 := mustReceipt(t, ctx, s, b.ID)
	r2 := mustReceipt(t, ctx, s, a.ID)
	if r0.ID != 0 || r1.ID != 1 || r2.ID != 2 {
		t.Fatalf("expected receipt IDs 0,1,2 got %d,%d,%d", r0.ID, r1.ID, r2.ID)
	}
	if r0.PayerID != a.ID || r1.PayerID != b.ID {
		t.Errorf("receipts attached to wrong payers: %+v %+v", r0, r1)
	}
	if r0.Total != 0 || len(r0.Items) != 0 {
		t.Errorf("new receipt not empty: %+v", r0)
	}
	if r0.Name != "Receipt 1" || r2.Name != "Receipt 2" {
		t.Errorf("unexpected default names %q, %q", r0.Name, r2.Name)
	}

	if err := s.RemoveReceipt(ctx, a.ID, r2.ID); err != nil {
		t.Fatalf("RemoveReceipt failed: %v", err)
	}
	r3 := mustReceipt(t, ctx, s, b.ID)
	if r3.ID != 3 {
		t.Errorf("expected receipt ID 3 after removal, got %d", r3.ID)
	}

	got, err := s.GetPayer(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetPayer failed: %v", err)
	}
	if len(got.Receipts) != 1 || got.Receipts[0].ID != r0.ID {
		t.Errorf("unexpected receipts for Alice: %+v", got.Receipts)
	}
}

func testManualTotal(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)

	if err := s.UpdateReceiptTotal(ctx, p.ID, r.ID, 42.5); err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}
	if total := receiptTotal(t, ctx, s, r.ID); total != 42.5 {
		t.Errorf("expected total 42.5, got %v", total)
	}
	if err := s.RenameReceipt(ctx, r.ID, "Groceries"); err != nil {
		t.Fatalf("RenameReceipt failed: %v", err)
	}
	got, _ := s.GetReceipt(ctx, r.ID)
	if got.Name != "Groceries" {
		t.Errorf("expected name Groceries, got %q", got.Name)
	}
}

func testItemsDriveTotal(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)

	first := mustItem(t, ctx, s, r.ID, "Pizza", 20)
	second := mustItem(t, ctx, s, r.ID, "", 10.25)

	if first.ID != models.ItemID(r.ID, 1) || second.ID != models.ItemID(r.ID, 2) {
		t.Errorf("unexpected item IDs %q, %q", first.ID, second.ID)
	}
	if second.Name != "Item 2" {
		t.Errorf("expected placeholder name, got %q", second.Name)
	}
	if total := receiptTotal(t, ctx, s, r.ID); total != 30.25 {
		t.Errorf("expected total 30.25, got %v", total)
	}
}

func testTotalRejectedWhileItemized(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	mustItem(t, ctx, s, r.ID, "A", 7)
	mustItem(t, ctx, s, r.ID, "B", 3)

	err := s.UpdateReceiptTotal(ctx, p.ID, r.ID, 500)
	if !errors.Is(err, storage.ErrReceiptItemized) {
		t.Fatalf("expected ErrReceiptItemized, got %v", err)
	}
	if total := receiptTotal(t, ctx, s, r.ID); total != 10 {
		t.Errorf("expected item-derived total 10, got %v", total)
	}
}

func testLastItemRemoved(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	item := mustItem(t, ctx, s, r.ID, "A", 7)

	if err := s.RemoveReceiptItem(ctx, r.ID, item.ID); err != nil {
		t.Fatalf("RemoveReceiptItem failed: %v", err)
	}
	got, _ := s.GetReceipt(ctx, r.ID)
	if got.Total != 0 || len(got.Items) != 0 {
		t.Errorf("expected empty zero-total receipt, got %+v", got)
	}

	// Manual editing is possible again
	if err := s.UpdateReceiptTotal(ctx, p.ID, r.ID, 12); err != nil {
		t.Errorf("UpdateReceiptTotal after last item removed: %v", err)
	}

	// Item IDs keep counting
	next := mustItem(t, ctx, s, r.ID, "B", 1)
	if next.ID == item.ID {
		t.Errorf("item ID %q reused", next.ID)
	}
}

func testAddRemoveRoundTrip(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")

	itemized := mustReceipt(t, ctx, s, p.ID)
	mustItem(t, ctx, s, itemized.ID, "A", 0.1)
	mustItem(t, ctx, s, itemized.ID, "B", 0.2)

	manual := mustReceipt(t, ctx, s, p.ID)
	if err := s.UpdateReceiptTotal(ctx, p.ID, manual.ID, 19.99); err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}

	for _, receiptID := range []int64{itemized.ID, manual.ID} {
		before := receiptTotal(t, ctx, s, receiptID)
		item := mustItem(t, ctx, s, receiptID, "Extra", 5.55)
		if err := s.RemoveReceiptItem(ctx, receiptID, item.ID); err != nil {
			t.Fatalf("RemoveReceiptItem failed: %v", err)
		}
		if after := receiptTotal(t, ctx, s, receiptID); after != before {
			t.Errorf("receipt %d: total %v after round trip, want %v", receiptID, after, before)
		}
	}
}

func testItemize(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)

	// Zero total: nothing to migrate
	got, err := s.ItemizeReceipt(ctx, r.ID)
	if err != nil {
		t.Fatalf("ItemizeReceipt failed: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("expected no items for zero total, got %+v", got.Items)
	}

	if err := s.UpdateReceiptTotal(ctx, p.ID, r.ID, 64); err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}
	got, err = s.ItemizeReceipt(ctx, r.ID)
	if err != nil {
		t.Fatalf("ItemizeReceipt failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Price != 64 || got.Total != 64 {
		t.Fatalf("expected one synthetic item of 64, got %+v", got)
	}

	// Idempotent
	again, err := s.ItemizeReceipt(ctx, r.ID)
	if err != nil {
		t.Fatalf("ItemizeReceipt failed: %v", err)
	}
	if len(again.Items) != 1 {
		t.Errorf("second itemize added items: %+v", again.Items)
	}
}

func testUpdateItem(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	item := mustItem(t, ctx, s, r.ID, "Coffee", 4)
	mustItem(t, ctx, s, r.ID, "Bagel", 3)

	name := "Latte"
	got, err := s.UpdateReceiptItem(ctx, r.ID, item.ID, models.ItemUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateReceiptItem failed: %v", err)
	}
	if got.Name != "Latte" || got.Price != 4 {
		t.Errorf("unexpected item after rename: %+v", got)
	}

	price := 5.5
	if _, err := s.UpdateReceiptItem(ctx, r.ID, item.ID, models.ItemUpdate{Price: &price}); err != nil {
		t.Fatalf("UpdateReceiptItem failed: %v", err)
	}
	if total := receiptTotal(t, ctx, s, r.ID); total != 8.5 {
		t.Errorf("expected total 8.5, got %v", total)
	}
	receipt, _ := s.GetReceipt(ctx, r.ID)
	if receipt.Items[0].ID != item.ID || receipt.Items[0].Name != "Latte" {
		t.Errorf("item order or name lost: %+v", receipt.Items)
	}
}

func testNaNPrice(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	mustItem(t, ctx, s, r.ID, "Typed", 12)
	mustItem(t, ctx, s, r.ID, "Half-typed", math.NaN())

	total := receiptTotal(t, ctx, s, r.ID)
	if total != 12 {
		t.Errorf("expected total 12, got %v", total)
	}
}

func testRemoveReceipt(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	r := mustReceipt(t, ctx, s, p.ID)
	mustItem(t, ctx, s, r.ID, "A", 1)

	if err := s.RemoveReceipt(ctx, p.ID, r.ID); err != nil {
		t.Fatalf("RemoveReceipt failed: %v", err)
	}
	if _, err := s.GetReceipt(ctx, r.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for removed receipt, got %v", err)
	}
	got, _ := s.GetPayer(ctx, p.ID)
	if len(got.Receipts) != 0 {
		t.Errorf("expected no receipts, got %+v", got.Receipts)
	}
}

func testDeletePayerCascades(t *testing.T, ctx context.Context, s storage.Store) {
	a := mustPayer(t, ctx, s, "Alice")
	b := mustPayer(t, ctx, s, "Bob")
	ra := mustReceipt(t, ctx, s, a.ID)
	rb := mustReceipt(t, ctx, s, b.ID)
	mustItem(t, ctx, s, ra.ID, "A", 1)

	if err := s.DeletePayer(ctx, a.ID); err != nil {
		t.Fatalf("DeletePayer failed: %v", err)
	}
	if _, err := s.GetReceipt(ctx, ra.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("receipt survived its payer: %v", err)
	}
	if _, err := s.GetReceipt(ctx, rb.ID); err != nil {
		t.Errorf("other payer's receipt lost: %v", err)
	}
	all, _ := s.ListPayers(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 payer left, got %d", len(all))
	}
}

func testReset(t *testing.T, ctx context.Context, s storage.Store) {
	p := mustPayer(t, ctx, s, "Alice")
	old := mustReceipt(t, ctx, s, p.ID)

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	all, _ := s.ListPayers(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty store, got %d payers", len(all))
	}
	if _, err := s.GetPayer(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected old payer to be gone after reset, got %v", err)
	}

	fresh := mustPayer(t, ctx, s, "")
	if fresh.ID <= p.ID {
		t.Errorf("expected payer ID after reset to exceed %d, got %d", p.ID, fresh.ID)
	}
	if want := models.DefaultPayerName(fresh.ID); fresh.Name != want {
		t.Errorf("expected default name %q, got %q", want, fresh.Name)
	}
	r := mustReceipt(t, ctx, s, fresh.ID)
	if r.ID <= old.ID {
		t.Errorf("expected receipt ID after reset to exceed %d, got %d", old.ID, r.ID)
	}
	if r.Name != "Receipt 1" {
		t.Errorf("expected first receipt to be named Receipt 1, got %q", r.Name)
	}
}
