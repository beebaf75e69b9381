package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/common"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// SaveTransactions inserts transactions, silently skipping rows already
// present (identity is the dedup hash). Returns the number of newly
// inserted rows.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			hash, date, description, raw_description, category, source_file, amount, kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		res, execErr := stmt.ExecContext(ctx,
			txn.GenerateHash(),
			txn.Date.Format(time.RFC3339),
			txn.Description,
			txn.RawDescription,
			txn.Category,
			txn.SourceFile,
			txn.Amount,
			string(txn.Kind),
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction: %w", execErr)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// GetTransactions returns all stored transactions in chronological order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, description, raw_description, category, source_file, amount, kind
		FROM transactions
		ORDER BY date, kind DESC, description
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// GetTransactionsByCategory returns stored transactions in one category.
func (s *SQLiteStorage) GetTransactionsByCategory(ctx context.Context, category string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, description, raw_description, category, source_file, amount, kind
		FROM transactions
		WHERE category = ?
		ORDER BY date, description
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("category %q: %w", category, common.ErrNotFound)
	}
	return transactions, nil
}

// GetTransactionCount returns how many transactions are stored.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var txn model.Transaction
	var dateStr, kind string
	var rawDesc, category, sourceFile sql.NullString

	if err := rows.Scan(&dateStr, &txn.Description, &rawDesc, &category, &sourceFile, &txn.Amount, &kind); err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return txn, fmt.Errorf("failed to parse stored date %q: %w", dateStr, err)
	}
	txn.Date = date
	txn.RawDescription = rawDesc.String
	txn.Category = category.String
	txn.SourceFile = sourceFile.String
	txn.Kind = model.TxnKind(kind)
	return txn, nil
}
