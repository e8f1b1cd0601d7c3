package models

import "fmt"

// Payer represents a participant who contributes receipts to the group.
type Payer struct {
	// ID is assigned by the store on creation (0, 1, 2, ...) and never reused.
	ID int64

	// Name is the display name. Not unique.
	Name string

	// Receipts are owned by this payer, in creation order.
	// Deleting the payer deletes them.
	Receipts []Receipt

	// AmountDue is the payer's contribution minus the equal share.
	// Positive = owed money (overpaid), negative = owes money.
	// Derived by the ledger on read; stores leave it at zero.
	AmountDue float64
}

// DefaultPayerName returns the placeholder name given to a payer created without one.
func DefaultPayerName(id int64) string {
	return fmt.Sprintf("Payer %d", id)
}

// Clone returns a deep copy of the payer.
func (p *Payer) Clone() *Payer {
	if p == nil {
		return nil
	}
	out := *p
	if p.Receipts != nil {
		out.Receipts = make([]Receipt, len(p.Receipts))
		for i := range p.Receipts {
			out.Receipts[i] = *p.Receipts[i].Clone()
		}
	}
	return &out
}

// FindReceipt returns the index of the receipt with the given ID, or -1.
func (p *Payer) FindReceipt(receiptID int64) int {
	for i := range p.Receipts {
		if p.Receipts[i].ID == receiptID {
			return i
		}
	}
	return -1
}
