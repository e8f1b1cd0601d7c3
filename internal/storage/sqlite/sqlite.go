// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The database lives in memory only: every Store gets its own named shared-cache
// database that disappears on Close. Nothing is written to disk.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a SQLiteStore on a fresh in-memory database and runs migrations.
func New() (*SQLiteStore, error) {
	name := "receiptsplit-" + uuid.New().String()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serialises writers and keeps the in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection, discarding the in-memory database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nextID hands out the next value of a named sequence.
func nextID(ctx context.Context, tx *sql.Tx, sequence string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT value FROM sequences WHERE name = ?", sequence).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read %s sequence: %w", sequence, err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE sequences SET value = value + 1 WHERE name = ?", sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", sequence, err)
	}
	return id, nil
}

// amount maps a NULL column back to NaN, which is how SQLite stored it.
func amount(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func payerNotFound(payerID int64) error {
	return fmt.Errorf("payer %d: %w", payerID, storage.ErrNotFound)
}

func receiptNotFound(receiptID int64) error {
	return fmt.Errorf("receipt %d: %w", receiptID, storage.ErrNotFound)
}

// CreatePayer inserts a payer under the next payer ID.
func (s *SQLiteStore) CreatePayer(ctx context.Context, name string) (*models.Payer, error) {
	payer := &models.Payer{Name: name}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx, "payer")
		if err != nil {
			return err
		}
		payer.ID = id
		if payer.Name == "" {
			payer.Name = models.DefaultPayerName(id)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO payers (id, name) VALUES (?, ?)", id, payer.Name); err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payer, nil
}

// GetPayer retrieves a payer with its receipts and items.
func (s *SQLiteStore) GetPayer(ctx context.Context, payerID int64) (*models.Payer, error) {
	payers, err := loadPayers(ctx, s.db, &payerID)
	if err != nil {
		return nil, err
	}
	p, ok := payers[payerID]
	if !ok {
		return nil, payerNotFound(payerID)
	}
	return p, nil
}

// ListPayers retrieves every payer with receipts and items.
func (s *SQLiteStore) ListPayers(ctx context.Context) (map[int64]*models.Payer, error) {
	return loadPayers(ctx, s.db, nil)
}

// RenamePayer replaces the payer's name.
func (s *SQLiteStore) RenamePayer(ctx context.Context, payerID int64, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE payers SET name = ? WHERE id = ?", name, payerID)
	if err != nil {
		return fmt.Errorf("failed to rename payer: %w", err)
	}
	return expectOne(res, payerNotFound(payerID))
}

// DeletePayer removes the payer, its receipts and their items.
func (s *SQLiteStore) DeletePayer(ctx context.Context, payerID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Cascade explicitly; the foreign keys back this up.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM receipt_items WHERE receipt_id IN (SELECT id FROM receipts WHERE payer_id = ?)",
			payerID,
		); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM receipts WHERE payer_id = ?", payerID); err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM payers WHERE id = ?", payerID)
		if err != nil {
			return fmt.Errorf("failed to delete payer: %w", err)
		}
		return expectOne(res, payerNotFound(payerID))
	})
}

// Reset empties every table. The sequences are left alone so IDs are never reused.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM receipt_items",
			"DELETE FROM receipts",
			"DELETE FROM payers",
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
		}
		return nil
	})
}

// expectOne turns a zero-row update into notFound.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// loadPayers reads payers (all, or just one) with their receipts and items.
// Each result set is drained before the next query: the pool holds one connection.
func loadPayers(ctx context.Context, q querier, payerID *int64) (map[int64]*models.Payer, error) {
	filter, args := "", []any{}
	if payerID != nil {
		filter, args = " WHERE id = ?", []any{*payerID}
	}

	payers := make(map[int64]*models.Payer)
	rows, err := q.QueryContext(ctx, "SELECT id, name FROM payers"+filter, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get payers: %w", err)
	}
	for rows.Next() {
		p := &models.Payer{}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		payers[p.ID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payers: %w", err)
	}
	if len(payers) == 0 {
		return payers, nil
	}

	receiptFilter := ""
	if payerID != nil {
		receiptFilter = " WHERE payer_id = ?"
	}
	receipts, err := loadReceipts(ctx, q, receiptFilter, args...)
	if err != nil {
		return nil, err
	}
	for _, r := range receipts {
		if p, ok := payers[r.PayerID]; ok {
			p.Receipts = append(p.Receipts, *r)
		}
	}
	return payers, nil
}

// loadReceipts reads receipts matching filter, ordered by ID, with their items.
func loadReceipts(ctx context.Context, q querier, filter string, args ...any) ([]*models.Receipt, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, payer_id, name, total, next_item_seq FROM receipts"+filter+" ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts: %w", err)
	}

	var receipts []*models.Receipt
	byID := make(map[int64]*models.Receipt)
	for rows.Next() {
		r := &models.Receipt{}
		var total sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.PayerID, &r.Name, &total, &r.NextItemSeq); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		r.Total = amount(total)
		receipts = append(receipts, r)
		byID[r.ID] = r
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	if len(receipts) == 0 {
		return receipts, nil
	}

	itemRows, err := q.QueryContext(ctx,
		"SELECT receipt_id, id, name, price FROM receipt_items"+
			" WHERE receipt_id IN (SELECT id FROM receipts"+filter+")"+
			" ORDER BY receipt_id, position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			receiptID int64
			item      models.ReceiptItem
			price     sql.NullFloat64
		)
		if err := itemRows.Scan(&receiptID, &item.ID, &item.Name, &price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Price = amount(price)
		if r, ok := byID[receiptID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return receipts, nil
}

// isNotFound reports whether err is a storage.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
