// Package gap surfaces discrepancies between independently derived
// figures. Gaps are reported, never corrected: a nonzero delta is a
// prompt to investigate source data, not something to paper over.
package gap

import (
	"fmt"
	"sort"

	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

// Compare builds a single gap line. Delta is ValueA minus ValueB, rounded
// to cents.
func Compare(label string, a, b float64) model.GapReport {
	return model.GapReport{
		Label:  label,
		ValueA: money.Round2(a),
		ValueB: money.Round2(b),
		Delta:  money.Round2(a - b),
	}
}

// PlatformBalance compares the balance we compute from the platform's own
// activity rows against the balance the platform reports in its UI.
// prior covers payouts that predate the exported window.
func PlatformBalance(summary model.PlatformSummary, reported, prior float64) model.GapReport {
	calculated := summary.NetEarned() - summary.Deposits - prior
	return Compare("platform balance (calculated vs reported)", calculated, reported)
}

// PayoutsVsDeposits compares what the platform says it paid out against
// what actually arrived in the bank.
func PayoutsVsDeposits(platformDeposits, bankDeposits float64) model.GapReport {
	return Compare("platform payouts vs bank deposits", platformDeposits, bankDeposits)
}

// MonthlyClosings compares the running ledger balance at the end of each
// configured month against the closing balance printed on that month's
// statement. Months with no configured closing are skipped. Results are
// ordered by month.
func MonthlyClosings(rows []model.LedgerRow, closings map[string]float64) []model.GapReport {
	if len(closings) == 0 {
		return nil
	}

	// Last ledger balance seen in each month.
	endOfMonth := make(map[string]float64)
	var activityMonths []string
	for _, row := range rows {
		month := row.Transaction.MonthKey()
		if _, seen := endOfMonth[month]; !seen {
			activityMonths = append(activityMonths, month)
		}
		endOfMonth[month] = row.Balance
	}
	sort.Strings(activityMonths)

	months := make([]string, 0, len(closings))
	for month := range closings {
		months = append(months, month)
	}
	sort.Strings(months)

	reports := make([]model.GapReport, 0, len(months))
	for _, month := range months {
		ledgerBal, ok := endOfMonth[month]
		if !ok {
			// A month with no activity carries the prior balance forward;
			// a month before any activity compares against zero.
			ledgerBal = balanceBefore(activityMonths, endOfMonth, month)
		}
		reports = append(reports, Compare(
			fmt.Sprintf("ledger vs statement closing %s", month),
			ledgerBal, closings[month],
		))
	}
	return reports
}

func balanceBefore(activityMonths []string, endOfMonth map[string]float64, month string) float64 {
	idx := sort.SearchStrings(activityMonths, month)
	if idx == 0 {
		return 0
	}
	return endOfMonth[activityMonths[idx-1]]
}
