package models

import "fmt"

// Receipt represents one expense entry belonging to a payer.
type Receipt struct {
	// ID is unique across all payers, assigned at creation and never reused.
	ID int64

	// PayerID is the owning payer. Set at creation, never reassigned.
	PayerID int64

	// Name is a mutable label (e.g., "Groceries").
	Name string

	// Items are the line items. May be empty.
	Items []ReceiptItem

	// Total is the receipt amount.
	// With items, it is the sum of item prices and cannot be set directly.
	// Without items, it is a manual total the caller edits directly.
	Total float64

	// NextItemSeq is the last item sequence number handed out for this receipt.
	// Item IDs are built from it so they are never reused after a removal.
	NextItemSeq int
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	// ID is "<receiptID>-<seq>", unique within the receipt.
	ID string

	// Name is a mutable label; defaults to "Item <seq>".
	Name string

	// Price of the line. Non-finite values count as zero when summed.
	Price float64
}

// ItemUpdate carries a partial update for a receipt item.
// Nil fields are left untouched.
type ItemUpdate struct {
	Name  *string
	Price *float64
}

// Itemized reports whether the receipt total is derived from its items.
func (r *Receipt) Itemized() bool {
	return len(r.Items) > 0
}

// FindItem returns the index of the item with the given ID, or -1.
func (r *Receipt) FindItem(itemID string) int {
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	out := *r
	if r.Items != nil {
		out.Items = append([]ReceiptItem(nil), r.Items...)
	}
	return &out
}

// ItemID builds the identity of the seq-th item of a receipt.
func ItemID(receiptID int64, seq int) string {
	return fmt.Sprintf("%d-%d", receiptID, seq)
}

// DefaultItemName is the positional placeholder for an unnamed item.
func DefaultItemName(seq int) string {
	return fmt.Sprintf("Item %d", seq)
}

// DefaultReceiptName is the placeholder for the n-th receipt (1-based) of a payer.
func DefaultReceiptName(n int) string {
	return fmt.Sprintf("Receipt %d", n)
}
