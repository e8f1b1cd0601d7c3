package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// AddReceipt appends an empty receipt to the payer.
func (s *SQLiteStore) AddReceipt(ctx context.Context, payerID int64) (*models.Receipt, error) {
	receipt := &models.Receipt{PayerID: payerID}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(r.id) FROM payers p LEFT JOIN receipts r ON r.payer_id = p.id WHERE p.id = ? GROUP BY p.id",
			payerID,
		).Scan(&count)
		if err == sql.ErrNoRows {
			return payerNotFound(payerID)
		}
		if err != nil {
			return fmt.Errorf("failed to count receipts: %w", err)
		}

		id, err := nextID(ctx, tx, "receipt")
		if err != nil {
			return err
		}
		receipt.ID = id
		receipt.Name = models.DefaultReceiptName(count + 1)

		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipts (id, payer_id, name, total, next_item_seq) VALUES (?, ?, ?, ?, ?)",
			receipt.ID, receipt.PayerID, receipt.Name, receipt.Total, receipt.NextItemSeq,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetReceipt retrieves a receipt and its items.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error) {
	return loadReceipt(ctx, s.db, receiptID)
}

// RenameReceipt replaces the receipt's name.
func (s *SQLiteStore) RenameReceipt(ctx context.Context, receiptID int64, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE receipts SET name = ? WHERE id = ?", name, receiptID)
	if err != nil {
		return fmt.Errorf("failed to rename receipt: %w", err)
	}
	return expectOne(res, receiptNotFound(receiptID))
}

// UpdateReceiptTotal sets a manual total.
func (s *SQLiteStore) UpdateReceiptTotal(ctx context.Context, payerID, receiptID int64, total float64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := loadOwnedReceipt(ctx, tx, payerID, receiptID)
		if err != nil {
			return err
		}
		if r.Itemized() {
			return fmt.Errorf("receipt %d: %w", receiptID, storage.ErrReceiptItemized)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE receipts SET total = ? WHERE id = ?", total, receiptID); err != nil {
			return fmt.Errorf("failed to update receipt total: %w", err)
		}
		return nil
	})
}

// RemoveReceipt removes the receipt and its items.
func (s *SQLiteStore) RemoveReceipt(ctx context.Context, payerID, receiptID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := loadOwnedReceipt(ctx, tx, payerID, receiptID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM receipt_items WHERE receipt_id = ?", receiptID); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM receipts WHERE id = ?", receiptID); err != nil {
			return fmt.Errorf("failed to delete receipt: %w", err)
		}
		return nil
	})
}

// ItemizeReceipt moves a manual total into a synthetic item.
func (s *SQLiteStore) ItemizeReceipt(ctx context.Context, receiptID int64) (*models.Receipt, error) {
	var out *models.Receipt
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := loadReceipt(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		if storage.Itemize(r) {
			if err := saveReceipt(ctx, tx, r); err != nil {
				return err
			}
		}
		out = r
		return nil
	})
	return out, err
}

// AddReceiptItem appends an item and recomputes the total.
func (s *SQLiteStore) AddReceiptItem(ctx context.Context, receiptID int64, name string, price float64) (*models.ReceiptItem, error) {
	var item models.ReceiptItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := loadReceipt(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		item = storage.AppendItem(r, name, price)
		return saveReceipt(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateReceiptItem applies a partial update to an item.
func (s *SQLiteStore) UpdateReceiptItem(ctx context.Context, receiptID int64, itemID string, update models.ItemUpdate) (*models.ReceiptItem, error) {
	var item models.ReceiptItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := loadReceipt(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		i := r.FindItem(itemID)
		if i < 0 {
			return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
		}
		item = storage.ApplyItemUpdate(r, i, update)
		return saveReceipt(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveReceiptItem removes an item and recomputes the total.
func (s *SQLiteStore) RemoveReceiptItem(ctx context.Context, receiptID int64, itemID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := loadReceipt(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		i := r.FindItem(itemID)
		if i < 0 {
			return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
		}
		storage.DropItem(r, i)
		return saveReceipt(ctx, tx, r)
	})
}

func loadReceipt(ctx context.Context, q querier, receiptID int64) (*models.Receipt, error) {
	receipts, err := loadReceipts(ctx, q, " WHERE id = ?", receiptID)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, receiptNotFound(receiptID)
	}
	return receipts[0], nil
}

// loadOwnedReceipt loads a receipt only if it belongs to payerID.
func loadOwnedReceipt(ctx context.Context, q querier, payerID, receiptID int64) (*models.Receipt, error) {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM payers WHERE id = ?", payerID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, payerNotFound(payerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}

	r, err := loadReceipt(ctx, q, receiptID)
	if isNotFound(err) || (err == nil && r.PayerID != payerID) {
		return nil, receiptNotFound(receiptID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// saveReceipt writes back the receipt row and replaces its items.
func saveReceipt(ctx context.Context, tx *sql.Tx, r *models.Receipt) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE receipts SET name = ?, total = ?, next_item_seq = ? WHERE id = ?",
		r.Name, r.Total, r.NextItemSeq, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM receipt_items WHERE receipt_id = ?", r.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	for pos, item := range r.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO receipt_items (id, receipt_id, position, name, price) VALUES (?, ?, ?, ?, ?)",
			item.ID, r.ID, pos, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	return nil
}
