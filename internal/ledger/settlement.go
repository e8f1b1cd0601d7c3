package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

// Settlement returns the settlement computed after the last mutation.
func (s *Service) Settlement() calculator.Settlement {
	s.refresh(context.Background())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// GroupTotal is the sum of every payer's contribution.
func (s *Service) GroupTotal() float64 {
	return s.Settlement().GroupTotal
}

// EqualShare is the group total divided by the number of payers, or 0 with no payers.
func (s *Service) EqualShare() float64 {
	return s.Settlement().EqualShare
}

func (s *Service) balance(payerID int64) (calculator.PayerBalance, error) {
	b, ok := s.Settlement().Balance(payerID)
	if !ok {
		return b, fmt.Errorf("payer %d: %w", payerID, ErrNotFound)
	}
	return b, nil
}

// ContributedAmount is the sum of a payer's receipt totals.
func (s *Service) ContributedAmount(payerID int64) (float64, error) {
	b, err := s.balance(payerID)
	return b.Contributed, err
}

// AmountDue is the payer's contribution minus the equal share.
// Positive means the payer is owed money, negative means the payer owes.
func (s *Service) AmountDue(payerID int64) (float64, error) {
	b, err := s.balance(payerID)
	return b.AmountDue, err
}

// TaxRates returns the rates used by ReceiptTaxes.
func (s *Service) TaxRates() calculator.TaxRates {
	return s.rates
}

// ReceiptTaxes shows the receipt total with taxes applied.
// The stored total is left alone.
func (s *Service) ReceiptTaxes(ctx context.Context, receiptID int64) (calculator.TaxBreakdown, error) {
	r, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		return calculator.TaxBreakdown{}, err
	}
	return calculator.Taxes(r.Total, s.rates), nil
}

// CommitTaxInclusiveTotal replaces a manual total with its tax-inclusive amount.
// Itemized receipts are rejected with ErrReceiptItemized: their total is derived.
func (s *Service) CommitTaxInclusiveTotal(ctx context.Context, payerID, receiptID int64) (*models.Receipt, error) {
	var r *models.Receipt
	err := s.mutate(ctx, "commit_tax_inclusive_total", func() error {
		current, err := s.store.GetReceipt(ctx, receiptID)
		if err != nil {
			return err
		}
		total := calculator.TaxInclusiveTotal(current.Total, s.rates)
		if err := s.store.UpdateReceiptTotal(ctx, payerID, receiptID, total); err != nil {
			return err
		}
		r, err = s.store.GetReceipt(ctx, receiptID)
		return err
	})
	return r, err
}
