// Package engine orchestrates the full reconciliation pipeline: statement
// merge, categorization, receipt matching, ledger construction, and gap
// reporting. Recompute is pure: the same inputs always produce the same
// derived state, and nothing in the inputs is mutated.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/KeyComponentMFG/every-penny/internal/category"
	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/gap"
	"github.com/KeyComponentMFG/every-penny/internal/ingest"
	"github.com/KeyComponentMFG/every-penny/internal/ledger"
	"github.com/KeyComponentMFG/every-penny/internal/match"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// payoutCategory is the category that marks platform payouts landing in
// the bank; the payout gap compares its deposit total against what the
// platform says it sent.
const payoutCategory = "Platform Payout"

// Inputs is everything Recompute reads. Statements are split by trust:
// priority sources own the months they cover, convenience sources only
// fill the rest.
type Inputs struct {
	Priority     []*ingest.BankStatement
	Convenience  []*ingest.BankStatement
	Receipts     []model.Receipt
	PlatformRows []model.PlatformRow
}

// CategoryMatch is the match outcome for one spending category.
type CategoryMatch struct {
	Category string
	Matched  []model.MatchResult
	Missing  []model.MissingReceipt
}

// DerivedState is the complete output of a reconciliation run. It is
// rebuilt from scratch on every Recompute; callers must not modify it.
type DerivedState struct {
	Transactions    []model.Transaction
	CoveredMonths   map[string]bool
	Ledger          []model.LedgerRow
	Matches         []CategoryMatch
	Integrity       []model.IntegrityFinding
	PlatformSummary model.PlatformSummary
	Gaps            []model.GapReport
	TotalDeposits   float64
	TotalDebits     float64
}

// Recompute runs the whole pipeline over the given inputs.
func Recompute(cfg *config.Config, in Inputs) (*DerivedState, error) {
	merged := ingest.MergeStatements(in.Priority, in.Convenience)

	txns := ingest.ApplyOverrides(merged.Transactions, cfg.Overrides)
	txns, err := ingest.AppendManual(txns, merged.CoveredMonths, cfg.ManualTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to apply manual transactions: %w", err)
	}

	partitioner := category.NewPartitioner(cfg)
	txns = partitioner.Apply(txns)
	ingest.SortChronological(txns)

	state := &DerivedState{
		Transactions:  txns,
		CoveredMonths: merged.CoveredMonths,
		Ledger:        ledger.Build(txns),
		Integrity:     ingest.CheckReceipts(in.Receipts),
	}
	state.TotalDeposits, state.TotalDebits = ledger.Totals(txns)

	state.Matches = matchByCategory(cfg, partitioner, txns, in.Receipts)
	state.PlatformSummary = ingest.Summarize(in.PlatformRows)
	state.Gaps = buildGaps(cfg, state)

	slog.Info("recompute complete",
		"transactions", len(txns),
		"ledger_rows", len(state.Ledger),
		"categories", len(state.Matches),
		"integrity_findings", len(state.Integrity))

	return state, nil
}

// matchByCategory runs the receipt matcher over every debit category in
// sorted order, so repeated runs list categories identically.
func matchByCategory(cfg *config.Config, partitioner *category.Partitioner, txns []model.Transaction, receipts []model.Receipt) []CategoryMatch {
	matcher := match.NewMatcher(cfg.Tolerances)
	byCategory := partitioner.PartitionDebits(txns)

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	noReceipt := make(map[string]bool, len(cfg.NoReceiptCategories))
	for _, cat := range cfg.NoReceiptCategories {
		noReceipt[cat] = true
	}

	var results []CategoryMatch
	for _, cat := range categories {
		if noReceipt[cat] {
			continue
		}
		debits := byCategory[cat]
		pool, mapped := partitioner.ReceiptPool(cat, receipts)
		if !mapped {
			results = append(results, CategoryMatch{
				Category: cat,
				Missing:  match.MissingAll(cat, debits),
			})
			continue
		}
		res := matcher.Match(cat, debits, pool)
		results = append(results, CategoryMatch{
			Category: cat,
			Matched:  res.Matched,
			Missing:  res.Missing,
		})
	}
	return results
}

// buildGaps assembles the standard discrepancy report: platform balance
// vs reported, platform payouts vs bank deposits, and ledger vs each
// configured statement closing balance.
func buildGaps(cfg *config.Config, state *DerivedState) []model.GapReport {
	var gaps []model.GapReport

	gaps = append(gaps, gap.PlatformBalance(
		state.PlatformSummary, cfg.PlatformReportedBalance, cfg.PlatformPriorDeposits))

	bankPayouts := 0.0
	for _, txn := range state.Transactions {
		if txn.Kind == model.KindDeposit && txn.Category == payoutCategory {
			bankPayouts += txn.Amount
		}
	}
	gaps = append(gaps, gap.PayoutsVsDeposits(
		state.PlatformSummary.Deposits+cfg.PlatformPriorDeposits, bankPayouts))

	gaps = append(gaps, gap.MonthlyClosings(state.Ledger, cfg.ClosingBalances)...)

	return gaps
}
