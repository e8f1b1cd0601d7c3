// Package memory provides the in-memory implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every payer in a map guarded by a RWMutex.
// Reads hand out deep copies.
type Store struct {
	mu sync.RWMutex

	payers        map[int64]*models.Payer
	nextPayerID   int64
	nextReceiptID int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{payers: make(map[int64]*models.Payer)}
}

func payerNotFound(payerID int64) error {
	return fmt.Errorf("payer %d: %w", payerID, storage.ErrNotFound)
}

func receiptNotFound(receiptID int64) error {
	return fmt.Errorf("receipt %d: %w", receiptID, storage.ErrNotFound)
}

// CreatePayer stores a new payer under the next ID.
func (s *Store) CreatePayer(_ context.Context, name string) (*models.Payer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = models.DefaultPayerName(s.nextPayerID)
	}
	p := &models.Payer{ID: s.nextPayerID, Name: name}
	s.nextPayerID++
	s.payers[p.ID] = p
	return p.Clone(), nil
}

// GetPayer retrieves a copy of the payer.
func (s *Store) GetPayer(_ context.Context, payerID int64) (*models.Payer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.payers[payerID]; ok {
		return p.Clone(), nil
	}
	return nil, payerNotFound(payerID)
}

// ListPayers returns a deep-copied snapshot of every payer.
func (s *Store) ListPayers(_ context.Context) (map[int64]*models.Payer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]*models.Payer, len(s.payers))
	for id, p := range s.payers {
		out[id] = p.Clone()
	}
	return out, nil
}

// RenamePayer replaces the payer's name.
func (s *Store) RenamePayer(_ context.Context, payerID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payers[payerID]
	if !ok {
		return payerNotFound(payerID)
	}
	p.Name = name
	return nil
}

// DeletePayer removes the payer; its receipts go with it.
func (s *Store) DeletePayer(_ context.Context, payerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payers[payerID]; !ok {
		return payerNotFound(payerID)
	}
	delete(s.payers, payerID)
	return nil
}

// AddReceipt appends an empty receipt to the payer.
func (s *Store) AddReceipt(_ context.Context, payerID int64) (*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payers[payerID]
	if !ok {
		return nil, payerNotFound(payerID)
	}
	r := models.Receipt{
		ID:      s.nextReceiptID,
		PayerID: payerID,
		Name:    models.DefaultReceiptName(len(p.Receipts) + 1),
	}
	s.nextReceiptID++
	p.Receipts = append(p.Receipts, r)
	return r.Clone(), nil
}

// receipt finds a live receipt by ID. Callers must hold the lock.
func (s *Store) receipt(receiptID int64) *models.Receipt {
	for _, p := range s.payers {
		if i := p.FindReceipt(receiptID); i >= 0 {
			return &p.Receipts[i]
		}
	}
	return nil
}

// ownedReceipt finds a live receipt under the given payer. Callers must hold the lock.
func (s *Store) ownedReceipt(payerID, receiptID int64) (*models.Payer, int, error) {
	p, ok := s.payers[payerID]
	if !ok {
		return nil, -1, payerNotFound(payerID)
	}
	i := p.FindReceipt(receiptID)
	if i < 0 {
		return nil, -1, receiptNotFound(receiptID)
	}
	return p, i, nil
}

// GetReceipt retrieves a copy of the receipt.
func (s *Store) GetReceipt(_ context.Context, receiptID int64) (*models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.receipt(receiptID)
	if r == nil {
		return nil, receiptNotFound(receiptID)
	}
	return r.Clone(), nil
}

// RenameReceipt replaces the receipt's name.
func (s *Store) RenameReceipt(_ context.Context, receiptID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.receipt(receiptID)
	if r == nil {
		return receiptNotFound(receiptID)
	}
	r.Name = name
	return nil
}

// UpdateReceiptTotal sets a manual total.
func (s *Store) UpdateReceiptTotal(_ context.Context, payerID, receiptID int64, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, i, err := s.ownedReceipt(payerID, receiptID)
	if err != nil {
		return err
	}
	r := &p.Receipts[i]
	if r.Itemized() {
		return fmt.Errorf("receipt %d: %w", receiptID, storage.ErrReceiptItemized)
	}
	r.Total = total
	return nil
}

// RemoveReceipt removes the receipt from its payer.
func (s *Store) RemoveReceipt(_ context.Context, payerID, receiptID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, i, err := s.ownedReceipt(payerID, receiptID)
	if err != nil {
		return err
	}
	p.Receipts = append(p.Receipts[:i], p.Receipts[i+1:]...)
	return nil
}

// ItemizeReceipt moves a manual total into a synthetic item.
func (s *Store) ItemizeReceipt(_ context.Context, receiptID int64) (*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.receipt(receiptID)
	if r == nil {
		return nil, receiptNotFound(receiptID)
	}
	storage.Itemize(r)
	return r.Clone(), nil
}

// AddReceiptItem appends an item and recomputes the total.
func (s *Store) AddReceiptItem(_ context.Context, receiptID int64, name string, price float64) (*models.ReceiptItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.receipt(receiptID)
	if r == nil {
		return nil, receiptNotFound(receiptID)
	}
	item := storage.AppendItem(r, name, price)
	return &item, nil
}

// UpdateReceiptItem applies a partial update to an item.
func (s *Store) UpdateReceiptItem(_ context.Context, receiptID int64, itemID string, update models.ItemUpdate) (*models.ReceiptItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.receipt(receiptID)
	if r == nil {
		return nil, receiptNotFound(receiptID)
	}
	i := r.FindItem(itemID)
	if i < 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	item := storage.ApplyItemUpdate(r, i, update)
	return &item, nil
}

// RemoveReceiptItem removes an item and recomputes the total.
func (s *Store) RemoveReceiptItem(_ context.Context, receiptID int64, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.receipt(receiptID)
	if r == nil {
		return receiptNotFound(receiptID)
	}
	i := r.FindItem(itemID)
	if i < 0 {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	storage.DropItem(r, i)
	return nil
}

// Reset drops every payer. The ID counters keep running so old IDs stay dead.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payers = make(map[int64]*models.Payer)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
