package ingest

import (
	"fmt"
	"math"

	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

// totalsTolerance absorbs rounding drift between a receipt's printed
// grand total and its subtotal plus tax.
const totalsTolerance = 0.02

// CheckReceipts flags receipts whose internal arithmetic is suspect:
// grand totals that disagree with subtotal plus tax, and order IDs that
// appear more than once across sources. Findings are advisory; flagged
// receipts still participate in matching.
func CheckReceipts(receipts []model.Receipt) []model.IntegrityFinding {
	var findings []model.IntegrityFinding

	seen := make(map[string]string) // order ID -> first source file
	for i := range receipts {
		r := &receipts[i]

		if r.Subtotal != 0 || r.Tax != 0 {
			gap := r.TotalsGap()
			if math.Abs(gap) > totalsTolerance {
				findings = append(findings, model.IntegrityFinding{
					Kind:    model.IntegrityTotalsMismatch,
					OrderID: r.OrderID,
					Amount:  gap,
					Detail: fmt.Sprintf("grand total %s but subtotal %s + tax %s = %s",
						money.Format(r.GrandTotal), money.Format(r.Subtotal),
						money.Format(r.Tax), money.Format(r.Subtotal+r.Tax)),
				})
			}
		}

		if r.OrderID == "" {
			continue
		}
		if first, dup := seen[r.OrderID]; dup {
			findings = append(findings, model.IntegrityFinding{
				Kind:    model.IntegrityDuplicateOrder,
				OrderID: r.OrderID,
				Amount:  r.GrandTotal,
				Detail:  fmt.Sprintf("also present in %s", first),
			})
		} else {
			seen[r.OrderID] = r.SourceFile
		}
	}

	return findings
}
