// Package match links bank debits to purchase receipts with a greedy
// nearest-match search run in two tolerance passes.
package match

import (
	"math"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// Result is the outcome of matching one category's debits against its
// receipt pool.
type Result struct {
	Matched []model.MatchResult
	Missing []model.MissingReceipt
}

// Matcher pairs debits with receipts under configured tolerances. It holds
// no state between calls; consumed receipts are tracked in a local set, so
// re-running with the same inputs always produces the same pairing.
type Matcher struct {
	tol config.Tolerances
}

// NewMatcher creates a matcher with the given tolerances.
func NewMatcher(tol config.Tolerances) *Matcher {
	return &Matcher{tol: tol}
}

// Match runs both passes over one category's debits and receipt pool.
// Debits should arrive in chronological order; the pool is shared state for
// the duration of the call only. Every debit ends up either in Matched or in
// Missing; money is never dropped silently.
//
// Pass 1 accepts only near-exact amounts so that a loose approximate match
// can never steal a receipt that would have been a perfect match for a
// later debit. Pass 2 relaxes the amount tolerance to catch tax computed
// slightly differently between the receipt and what actually cleared.
func (m *Matcher) Match(category string, debits []model.Transaction, pool []model.Receipt) Result {
	consumed := make(map[int]bool, len(pool))
	matchedBy := make(map[int]*model.MatchResult, len(debits))

	m.runPass(1, m.tol.ExactAmount, debits, pool, consumed, matchedBy)
	m.runPass(2, m.tol.ApproxAmount, debits, pool, consumed, matchedBy)

	var res Result
	for i, debit := range debits {
		if mr, ok := matchedBy[i]; ok {
			res.Matched = append(res.Matched, *mr)
			continue
		}
		res.Missing = append(res.Missing, model.MissingReceipt{
			Transaction: debit,
			Category:    category,
			Reason:      "no receipt within tolerance",
		})
	}
	return res
}

// MissingAll reports every debit in a category with no mapped receipt source
// as a missing-receipt finding; there is nothing to match against.
func MissingAll(category string, debits []model.Transaction) []model.MissingReceipt {
	out := make([]model.MissingReceipt, 0, len(debits))
	for _, debit := range debits {
		out = append(out, model.MissingReceipt{
			Transaction: debit,
			Category:    category,
			Reason:      "no receipt source mapped for category",
		})
	}
	return out
}

func (m *Matcher) runPass(pass int, amountTol float64, debits []model.Transaction, pool []model.Receipt, consumed map[int]bool, matchedBy map[int]*model.MatchResult) {
	for i, debit := range debits {
		if _, done := matchedBy[i]; done {
			continue
		}

		best := -1
		bestScore := 0
		for j := range pool {
			if consumed[j] {
				continue
			}
			score, ok := m.score(debit, &pool[j], amountTol)
			if !ok {
				continue
			}
			if best == -1 || score < bestScore {
				best = j
				bestScore = score
			}
		}

		if best == -1 {
			continue
		}
		consumed[best] = true
		matchedBy[i] = &model.MatchResult{
			Transaction: debit,
			Receipt:     &pool[best],
			Score:       bestScore,
			Pass:        pass,
			Matched:     true,
		}
	}
}

// score computes the composite distance between a debit and a receipt, or
// reports the receipt ineligible. Amount difference dominates; day distance
// only breaks ties between equally-close amounts.
func (m *Matcher) score(debit model.Transaction, r *model.Receipt, amountTol float64) (int, bool) {
	amountDiff := math.Abs(r.GrandTotal - debit.Amount)
	if amountDiff > amountTol {
		return 0, false
	}

	dayDiff := 0
	if r.HasDate() && !debit.Date.IsZero() {
		dayDiff = daysBetween(debit.Date, r.Date)
		if dayDiff > m.tol.MaxDayGap {
			return 0, false
		}
	}

	return int(math.Round(amountDiff*10000)) + dayDiff, true
}

func daysBetween(a, b time.Time) int {
	d := a.Sub(b).Hours() / 24
	if d < 0 {
		d = -d
	}
	return int(math.Round(d))
}
