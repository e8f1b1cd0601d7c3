package storage

import (
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

// The helpers below hold the receipt rules shared by every backend.
// Backends load a receipt, apply a helper, then persist the result.

// NextItem hands out the next item of r without appending it.
// An empty name gets the positional placeholder.
func NextItem(r *models.Receipt, name string, price float64) models.ReceiptItem {
	r.NextItemSeq++
	if name == "" {
		name = models.DefaultItemName(r.NextItemSeq)
	}
	return models.ReceiptItem{
		ID:    models.ItemID(r.ID, r.NextItemSeq),
		Name:  name,
		Price: price,
	}
}

// Itemize moves a non-zero manual total into a synthetic first item.
// It reports whether r changed.
func Itemize(r *models.Receipt) bool {
	if r.Itemized() || calculator.Finite(r.Total) == 0 {
		return false
	}
	r.Items = append(r.Items, NextItem(r, "", r.Total))
	Recompute(r)
	return true
}

// AppendItem itemizes r if needed, then appends a new item and recomputes the total.
func AppendItem(r *models.Receipt, name string, price float64) models.ReceiptItem {
	Itemize(r)
	item := NextItem(r, name, price)
	r.Items = append(r.Items, item)
	Recompute(r)
	return item
}

// ApplyItemUpdate updates the item at index i and recomputes the total if the price moved.
func ApplyItemUpdate(r *models.Receipt, i int, update models.ItemUpdate) models.ReceiptItem {
	if update.Name != nil {
		r.Items[i].Name = *update.Name
	}
	if update.Price != nil {
		r.Items[i].Price = *update.Price
		Recompute(r)
	}
	return r.Items[i]
}

// DropItem removes the item at index i and recomputes the total.
func DropItem(r *models.Receipt, i int) {
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
	Recompute(r)
}

// Recompute derives the total of an itemized receipt.
// A receipt left without items falls back to a zero manual total.
func Recompute(r *models.Receipt) {
	if !r.Itemized() {
		r.Items = nil
		r.Total = 0
		return
	}
	r.Total = calculator.Subtotal(r.Items)
}
