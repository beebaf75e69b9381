package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// SaveReceipts upserts receipts keyed by (order ID, source). Re-importing
// the same export refreshes rows in place.
func (s *SQLiteStorage) SaveReceipts(ctx context.Context, receipts []model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipts(receipts); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipts (order_id, source, source_file, date, subtotal, tax, grand_total, items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id, source) DO UPDATE SET
			source_file = excluded.source_file,
			date = excluded.date,
			subtotal = excluded.subtotal,
			tax = excluded.tax,
			grand_total = excluded.grand_total,
			items = excluded.items
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range receipts {
		r := &receipts[i]

		var itemsJSON []byte
		if len(r.Items) > 0 {
			itemsJSON, err = json.Marshal(r.Items)
			if err != nil {
				return fmt.Errorf("failed to marshal receipt items: %w", err)
			}
		}

		var dateVal any
		if r.HasDate() {
			dateVal = r.Date.Format(time.RFC3339)
		}

		if _, execErr := stmt.ExecContext(ctx,
			r.OrderID, r.Source, r.SourceFile, dateVal,
			r.Subtotal, r.Tax, r.GrandTotal, string(itemsJSON),
		); execErr != nil {
			return fmt.Errorf("failed to insert receipt %s: %w", r.OrderID, execErr)
		}
	}

	return tx.Commit()
}

// GetReceipts returns all stored receipts ordered by source then date.
func (s *SQLiteStorage) GetReceipts(ctx context.Context) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, source, source_file, date, subtotal, tax, grand_total, items
		FROM receipts
		ORDER BY source, date, order_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		r, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func scanReceipt(rows *sql.Rows) (model.Receipt, error) {
	var r model.Receipt
	var dateStr, sourceFile, itemsJSON sql.NullString

	if err := rows.Scan(&r.OrderID, &r.Source, &sourceFile, &dateStr,
		&r.Subtotal, &r.Tax, &r.GrandTotal, &itemsJSON); err != nil {
		return r, fmt.Errorf("failed to scan receipt: %w", err)
	}

	r.SourceFile = sourceFile.String
	if dateStr.Valid && dateStr.String != "" {
		date, err := time.Parse(time.RFC3339, dateStr.String)
		if err != nil {
			return r, fmt.Errorf("failed to parse stored receipt date %q: %w", dateStr.String, err)
		}
		r.Date = date
	}
	if itemsJSON.Valid && itemsJSON.String != "" {
		if err := json.Unmarshal([]byte(itemsJSON.String), &r.Items); err != nil {
			return r, fmt.Errorf("failed to unmarshal receipt items: %w", err)
		}
	}
	return r, nil
}
