// Package ledger is the public call surface of receiptsplit.
//
// A Service composes a storage.Store with the settlement calculator. It allows
// one writer at a time and recomputes the settlement after every successful
// mutation, so readers always see figures that match the store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

var (
	// ErrNotFound is returned for unknown payer, receipt or item IDs.
	ErrNotFound = storage.ErrNotFound

	// ErrReceiptItemized is returned when a total is set on a receipt that has items.
	ErrReceiptItemized = storage.ErrReceiptItemized
)

// IsNotFound reports whether err means an ID was unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Service implements the ledger operations on top of a Store.
type Service struct {
	mu       sync.RWMutex
	store    storage.Store
	rates    calculator.TaxRates
	snapshot calculator.Settlement
	stale    bool // snapshot lags the store after a failed recompute
}

// Option configures a Service.
type Option func(*Service)

// WithTaxRates overrides calculator.DefaultTaxRates.
func WithTaxRates(rates calculator.TaxRates) Option {
	return func(s *Service) {
		s.rates = rates
	}
}

// New creates a Service over store and computes the initial settlement.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Service, error) {
	s := &Service{store: store, rates: calculator.DefaultTaxRates}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.recompute(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// recompute refreshes the cached settlement. Callers must hold the write lock.
func (s *Service) recompute(ctx context.Context) error {
	payers, err := s.store.ListPayers(ctx)
	if err != nil {
		s.stale = true
		return fmt.Errorf("failed to list payers: %w", err)
	}
	s.snapshot = calculator.Settle(payers)
	s.stale = false
	return nil
}

// refresh retries a recompute that failed after a committed mutation.
func (s *Service) refresh(ctx context.Context) {
	s.mu.RLock()
	stale := s.stale
	s.mu.RUnlock()
	if !stale {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		if err := s.recompute(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("settlement still stale", "error", err)
		}
	}
}

// mutate runs fn under the write lock and recomputes the settlement if it succeeded.
// Once fn has succeeded the change is committed: a failed recompute is retried on
// the next read instead of being reported to the caller.
// The after funcs run last, still under the write lock.
func (s *Service) mutate(ctx context.Context, op string, fn func() error, after ...func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		slog.Debug("ledger mutation rejected", "op", op, "error", err)
		return err
	}
	if err := s.recompute(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("settlement recompute failed", "op", op, "error", err)
	} else {
		slog.Debug("ledger mutated",
			"op", op,
			"group_total", s.snapshot.GroupTotal,
			"equal_share", s.snapshot.EqualShare,
		)
	}
	for _, f := range after {
		f()
	}
	return nil
}

// withDue fills the derived AmountDue from the cached settlement.
// Callers must hold a lock.
func (s *Service) withDue(p *models.Payer) *models.Payer {
	if b, ok := s.snapshot.Balance(p.ID); ok {
		p.AmountDue = b.AmountDue
	}
	return p
}

// ListPayers returns every payer keyed by ID, with AmountDue filled.
func (s *Service) ListPayers(ctx context.Context) (map[int64]*models.Payer, error) {
	s.refresh(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()

	payers, err := s.store.ListPayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payers {
		s.withDue(p)
	}
	return payers, nil
}

// GetPayer returns one payer with AmountDue filled.
func (s *Service) GetPayer(ctx context.Context, payerID int64) (*models.Payer, error) {
	s.refresh(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.store.GetPayer(ctx, payerID)
	if err != nil {
		return nil, err
	}
	return s.withDue(p), nil
}

// AddPayer creates a payer. An empty name gets the "Payer <id>" placeholder.
func (s *Service) AddPayer(ctx context.Context, name string) (*models.Payer, error) {
	var p *models.Payer
	err := s.mutate(ctx, "add_payer", func() (err error) {
		p, err = s.store.CreatePayer(ctx, name)
		return err
	}, func() { s.withDue(p) })
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RenamePayer replaces a payer's name.
func (s *Service) RenamePayer(ctx context.Context, payerID int64, name string) error {
	return s.mutate(ctx, "rename_payer", func() error {
		return s.store.RenamePayer(ctx, payerID, name)
	})
}

// RemovePayer deletes a payer with all of its receipts.
func (s *Service) RemovePayer(ctx context.Context, payerID int64) error {
	return s.mutate(ctx, "remove_payer", func() error {
		return s.store.DeletePayer(ctx, payerID)
	})
}

// AddReceipt appends an empty receipt to a payer.
func (s *Service) AddReceipt(ctx context.Context, payerID int64) (*models.Receipt, error) {
	var r *models.Receipt
	err := s.mutate(ctx, "add_receipt", func() (err error) {
		r, err = s.store.AddReceipt(ctx, payerID)
		return err
	})
	return r, err
}

// GetReceipt returns a receipt by its ID.
func (s *Service) GetReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetReceipt(ctx, receiptID)
}

// RenameReceipt replaces a receipt's name.
func (s *Service) RenameReceipt(ctx context.Context, receiptID int64, name string) error {
	return s.mutate(ctx, "rename_receipt", func() error {
		return s.store.RenameReceipt(ctx, receiptID, name)
	})
}

// UpdateReceiptTotal sets the manual total of a receipt.
// Returns ErrReceiptItemized if the receipt has items.
func (s *Service) UpdateReceiptTotal(ctx context.Context, payerID, receiptID int64, total float64) error {
	return s.mutate(ctx, "update_receipt_total", func() error {
		return s.store.UpdateReceiptTotal(ctx, payerID, receiptID, total)
	})
}

// RemoveReceipt removes a receipt from its payer.
func (s *Service) RemoveReceipt(ctx context.Context, payerID, receiptID int64) error {
	return s.mutate(ctx, "remove_receipt", func() error {
		return s.store.RemoveReceipt(ctx, payerID, receiptID)
	})
}

// ItemizeReceipt turns a manual total into a single item so items can be edited.
func (s *Service) ItemizeReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error) {
	var r *models.Receipt
	err := s.mutate(ctx, "itemize_receipt", func() (err error) {
		r, err = s.store.ItemizeReceipt(ctx, receiptID)
		return err
	})
	return r, err
}

// AddReceiptItem appends an item to a receipt.
func (s *Service) AddReceiptItem(ctx context.Context, receiptID int64, name string, price float64) (*models.ReceiptItem, error) {
	var item *models.ReceiptItem
	err := s.mutate(ctx, "add_receipt_item", func() (err error) {
		item, err = s.store.AddReceiptItem(ctx, receiptID, name, price)
		return err
	})
	return item, err
}

// UpdateReceiptItem renames and/or reprices an item.
func (s *Service) UpdateReceiptItem(ctx context.Context, receiptID int64, itemID string, update models.ItemUpdate) (*models.ReceiptItem, error) {
	var item *models.ReceiptItem
	err := s.mutate(ctx, "update_receipt_item", func() (err error) {
		item, err = s.store.UpdateReceiptItem(ctx, receiptID, itemID, update)
		return err
	})
	return item, err
}

// RemoveReceiptItem removes an item from a receipt.
func (s *Service) RemoveReceiptItem(ctx context.Context, receiptID int64, itemID string) error {
	return s.mutate(ctx, "remove_receipt_item", func() error {
		return s.store.RemoveReceiptItem(ctx, receiptID, itemID)
	})
}

// Reset removes every payer. IDs keep counting up from where they were.
func (s *Service) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func() error {
		return s.store.Reset(ctx)
	})
}
