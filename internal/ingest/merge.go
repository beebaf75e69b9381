package ingest

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// MergeResult is the combined transaction set after priority/convenience
// dedup, plus the months any source covers.
type MergeResult struct {
	Transactions  []model.Transaction
	CoveredMonths map[string]bool
}

// dedupKey identifies a transaction across repeated convenience downloads.
// Raw description is part of the key: two same-day same-amount purchases
// from different merchants are distinct rows, not duplicates.
type dedupKey struct {
	date   time.Time
	amount float64
	kind   model.TxnKind
	desc   string
}

func keyFor(txn model.Transaction) dedupKey {
	return dedupKey{
		date:   txn.Date,
		amount: txn.Amount,
		kind:   txn.Kind,
		desc:   txn.NormalizedDescription(),
	}
}

// MergeStatements combines priority statements (official, authoritative)
// with convenience exports (CSV/OFX downloads, often overlapping
// supersets of each other). Both source classes are deduplicated
// last-write-wins in input order, so the same statement imported twice
// never double-counts a row. Convenience rows are then admitted only
// for months no priority statement covers. Running the merge twice over
// the same inputs yields the same result.
func MergeStatements(priority, convenience []*BankStatement) MergeResult {
	result := MergeResult{CoveredMonths: make(map[string]bool)}

	prioritySeen := make(map[dedupKey]model.Transaction)
	var priorityOrder []dedupKey
	for _, stmt := range priority {
		for _, txn := range stmt.Transactions {
			key := keyFor(txn)
			if _, dup := prioritySeen[key]; !dup {
				priorityOrder = append(priorityOrder, key)
			}
			prioritySeen[key] = txn
		}
		for month := range stmt.CoveredMonths {
			result.CoveredMonths[month] = true
		}
	}
	for _, key := range priorityOrder {
		result.Transactions = append(result.Transactions, prioritySeen[key])
	}

	seen := make(map[dedupKey]model.Transaction)
	var order []dedupKey
	convenienceMonths := make(map[string]bool)
	rawCount := 0
	for _, stmt := range convenience {
		for _, txn := range stmt.Transactions {
			rawCount++
			key := keyFor(txn)
			if _, dup := seen[key]; !dup {
				order = append(order, key)
			}
			seen[key] = txn
		}
		for month := range stmt.CoveredMonths {
			convenienceMonths[month] = true
		}
	}

	admitted := 0
	for _, key := range order {
		txn := seen[key]
		if result.CoveredMonths[txn.MonthKey()] {
			continue
		}
		result.Transactions = append(result.Transactions, txn)
		admitted++
	}
	for month := range convenienceMonths {
		if !result.CoveredMonths[month] {
			result.CoveredMonths[month] = true
		}
	}

	if rawCount > 0 {
		slog.Info("merged convenience statements",
			"raw_rows", rawCount,
			"unique_rows", len(seen),
			"admitted_rows", admitted)
	}

	return result
}

// ApplyOverrides rewrites transactions per the configured overrides. A
// recategorize keeps the row and swaps its category; a split replaces the
// row with one row per split piece, each keeping the original date and
// description. First matching override wins. The input slice is not
// modified.
func ApplyOverrides(txns []model.Transaction, overrides []config.TransactionOverride) []model.Transaction {
	if len(overrides) == 0 {
		out := make([]model.Transaction, len(txns))
		copy(out, txns)
		return out
	}

	result := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		override, ok := matchOverride(txn, overrides)
		if !ok {
			result = append(result, txn)
			continue
		}
		switch override.Action {
		case "split":
			for _, split := range override.Splits {
				piece := txn
				piece.Amount = split.Amount
				piece.Category = split.Category
				result = append(result, piece)
			}
		case "recategorize":
			txn.Category = override.Category
			result = append(result, txn)
		default:
			result = append(result, txn)
		}
	}
	return result
}

func matchOverride(txn model.Transaction, overrides []config.TransactionOverride) (config.TransactionOverride, bool) {
	for _, o := range overrides {
		m := o.Match
		if m.DescContains != "" {
			needle := strings.ToUpper(m.DescContains)
			if !strings.Contains(strings.ToUpper(txn.Description), needle) &&
				!strings.Contains(strings.ToUpper(txn.RawDescription), needle) {
				continue
			}
		}
		if m.DatePrefix != "" && !strings.HasPrefix(txn.Date.Format("01/02/2006"), m.DatePrefix) {
			continue
		}
		if m.Amount != nil && math.Abs(txn.Amount-*m.Amount) > 0.01 {
			continue
		}
		return o, true
	}
	return config.TransactionOverride{}, false
}

// ManualSourceFile marks rows injected from configuration rather than a
// parsed statement.
const ManualSourceFile = "config (manual)"

// AppendManual adds configured manual transactions for months no parsed
// statement covers. A manual row in a covered month is skipped; the
// statement already accounts for that money.
func AppendManual(txns []model.Transaction, covered map[string]bool, manual []config.ManualTransaction) ([]model.Transaction, error) {
	result := make([]model.Transaction, len(txns))
	copy(result, txns)

	skipped := 0
	for _, mt := range manual {
		date, err := time.Parse("01/02/2006", mt.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid manual transaction date %q: %w", mt.Date, err)
		}
		kind, err := model.ParseKind(mt.Kind)
		if err != nil {
			return nil, fmt.Errorf("manual transaction %q: %w", mt.Description, err)
		}
		if covered[date.Format("2006-01")] {
			skipped++
			continue
		}
		result = append(result, model.Transaction{
			Date:           date,
			Description:    mt.Description,
			RawDescription: mt.Description,
			Amount:         mt.Amount,
			Kind:           kind,
			Category:       mt.Category,
			SourceFile:     ManualSourceFile,
		})
	}

	if skipped > 0 {
		slog.Info("skipped manual transactions in covered months", "count", skipped)
	}
	return result, nil
}

// SortChronological orders transactions by date, then kind (deposits
// first), then description, for stable output.
func SortChronological(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		if txns[i].Kind != txns[j].Kind {
			return txns[i].Kind == model.KindDeposit
		}
		return txns[i].Description < txns[j].Description
	})
}
