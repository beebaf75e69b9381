package storage

import (
	"context"
	"fmt"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// ReplaceFindings rewrites the integrity findings table with the output
// of the latest run. Findings are derived data; history lives in the
// source tables, not here.
func (s *SQLiteStorage) ReplaceFindings(ctx context.Context, findings []model.IntegrityFinding) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM integrity_findings`); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}

	for _, f := range findings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO integrity_findings (kind, order_id, detail, amount)
			VALUES (?, ?, ?, ?)
		`, string(f.Kind), f.OrderID, f.Detail, f.Amount); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// GetFindings returns the findings from the latest run.
func (s *SQLiteStorage) GetFindings(ctx context.Context) ([]model.IntegrityFinding, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, order_id, detail, amount FROM integrity_findings ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var findings []model.IntegrityFinding
	for rows.Next() {
		var f model.IntegrityFinding
		var kind string
		if err := rows.Scan(&kind, &f.OrderID, &f.Detail, &f.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.Kind = model.IntegrityKind(kind)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// ReplaceGaps rewrites the gap reports table with the latest run's output.
func (s *SQLiteStorage) ReplaceGaps(ctx context.Context, gaps []model.GapReport) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gap_reports`); err != nil {
		return fmt.Errorf("failed to clear gap reports: %w", err)
	}

	for _, g := range gaps {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO gap_reports (label, value_a, value_b, delta)
			VALUES (?, ?, ?, ?)
		`, g.Label, g.ValueA, g.ValueB, g.Delta); err != nil {
			return fmt.Errorf("failed to insert gap report: %w", err)
		}
	}

	return tx.Commit()
}

// GetGaps returns the gap reports from the latest run.
func (s *SQLiteStorage) GetGaps(ctx context.Context) ([]model.GapReport, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT label, value_a, value_b, delta FROM gap_reports ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gap reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var gaps []model.GapReport
	for rows.Next() {
		var g model.GapReport
		if err := rows.Scan(&g.Label, &g.ValueA, &g.ValueB, &g.Delta); err != nil {
			return nil, fmt.Errorf("failed to scan gap report: %w", err)
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

// ReplaceMissingReceipts rewrites the missing-receipt table from the
// latest match run.
func (s *SQLiteStorage) ReplaceMissingReceipts(ctx context.Context, missing []model.MissingReceipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM missing_receipts`); err != nil {
		return fmt.Errorf("failed to clear missing receipts: %w", err)
	}

	for _, m := range missing {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO missing_receipts (transaction_hash, category, reason)
			VALUES (?, ?, ?)
		`, m.Transaction.GenerateHash(), m.Category, m.Reason); err != nil {
			return fmt.Errorf("failed to insert missing receipt: %w", err)
		}
	}

	return tx.Commit()
}
