// Package storage provides abstractions for ledger data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	// ErrNotFound is returned when a payer, receipt or item ID is unknown.
	// Nothing is mutated when it is returned.
	ErrNotFound = errors.New("not found")

	// ErrReceiptItemized is returned when a total is set directly on a receipt
	// whose total is derived from its items.
	ErrReceiptItemized = errors.New("receipt total is derived from its items")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (memory, SQLite)
// without changing the ledger service.
//
// Every mutation is atomic: callers never observe a half-applied change.
// Returned values are copies; mutating them never affects the store.
type Store interface {
	// CreatePayer allocates the next payer ID (starting at 0) and stores a payer
	// with no receipts. An empty name becomes "Payer <id>".
	CreatePayer(ctx context.Context, name string) (*models.Payer, error)

	// GetPayer retrieves a payer with its receipts and items.
	// Returns ErrNotFound if the payer does not exist.
	GetPayer(ctx context.Context, payerID int64) (*models.Payer, error)

	// ListPayers returns a snapshot of every payer keyed by ID.
	ListPayers(ctx context.Context) (map[int64]*models.Payer, error)

	// RenamePayer replaces the payer's name.
	RenamePayer(ctx context.Context, payerID int64, name string) error

	// DeletePayer removes the payer together with its receipts and their items.
	DeletePayer(ctx context.Context, payerID int64) error

	// AddReceipt appends a zero-total, item-less receipt to the payer.
	// Receipt IDs come from one counter shared by all payers.
	AddReceipt(ctx context.Context, payerID int64) (*models.Receipt, error)

	// GetReceipt retrieves a receipt by its globally unique ID.
	GetReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error)

	// RenameReceipt replaces the receipt's name.
	RenameReceipt(ctx context.Context, receiptID int64, name string) error

	// UpdateReceiptTotal sets the manual total of a receipt owned by payerID.
	// Returns ErrReceiptItemized if the receipt has items.
	UpdateReceiptTotal(ctx context.Context, payerID, receiptID int64, total float64) error

	// RemoveReceipt removes a receipt owned by payerID.
	RemoveReceipt(ctx context.Context, payerID, receiptID int64) error

	// ItemizeReceipt converts a non-zero manual total into a single item
	// carrying that amount. Receipts that already have items, or a zero
	// total, are returned unchanged.
	ItemizeReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error)

	// AddReceiptItem appends an item and recomputes the receipt total.
	// A non-zero manual total is itemized first so it is not lost.
	AddReceiptItem(ctx context.Context, receiptID int64, name string, price float64) (*models.ReceiptItem, error)

	// UpdateReceiptItem applies a partial update to an item and recomputes the
	// receipt total when the price changes.
	UpdateReceiptItem(ctx context.Context, receiptID int64, itemID string, update models.ItemUpdate) (*models.ReceiptItem, error)

	// RemoveReceiptItem removes an item and recomputes the receipt total.
	// The total falls back to 0 when no items remain.
	RemoveReceiptItem(ctx context.Context, receiptID int64, itemID string) error

	// Reset removes every payer, receipt and item. ID counters are not rewound:
	// an ID handed out before Reset never names a different entity afterwards.
	Reset(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
