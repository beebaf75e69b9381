// Package ledger folds a transaction set into a chronological running
// balance. Ordering is stable: rows sort by date, with deposits ahead of
// debits on the same day so a payout landing alongside a purchase never
// shows a spurious negative dip.
package ledger

import (
	"sort"

	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

// Build returns the running ledger for txns, starting from a zero balance.
// The input slice is not modified.
func Build(txns []model.Transaction) []model.LedgerRow {
	ordered := make([]model.Transaction, len(txns))
	copy(ordered, txns)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Kind == model.KindDeposit && ordered[j].Kind == model.KindDebit
	})

	rows := make([]model.LedgerRow, 0, len(ordered))
	balance := 0.0
	for _, txn := range ordered {
		balance = money.Round2(balance + txn.Signed())
		rows = append(rows, model.LedgerRow{Transaction: txn, Balance: balance})
	}
	return rows
}

// FinalBalance returns the closing balance of a built ledger, or zero for
// an empty one.
func FinalBalance(rows []model.LedgerRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Balance
}

// Totals sums deposits and debits independently. Build's final balance
// always equals deposits minus debits after rounding.
func Totals(txns []model.Transaction) (deposits, debits float64) {
	for _, txn := range txns {
		switch txn.Kind {
		case model.KindDeposit:
			deposits += txn.Amount
		case model.KindDebit:
			debits += txn.Amount
		}
	}
	return money.Round2(deposits), money.Round2(debits)
}
