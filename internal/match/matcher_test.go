package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func defaultTolerances() config.Tolerances {
	return config.Tolerances{ExactAmount: 0.02, ApproxAmount: 1.50, MaxDayGap: 14}
}

func day(month, d int) time.Time {
	return time.Date(2025, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func debitOn(date time.Time, amount float64) model.Transaction {
	return model.Transaction{
		Date:        date,
		Description: "AMAZON MKTPL TEST",
		Amount:      amount,
		Kind:        model.KindDebit,
		Category:    "Amazon Inventory",
	}
}

func receiptOn(id string, date time.Time, total float64) model.Receipt {
	return model.Receipt{
		OrderID:    id,
		Date:       date,
		Source:     "amazon-business",
		GrandTotal: total,
	}
}

func TestMatchExactAmountNearDate(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	debits := []model.Transaction{debitOn(day(3, 5), 42.17)}
	pool := []model.Receipt{receiptOn("X", day(3, 3), 42.17)}

	res := m.Match("Amazon Inventory", debits, pool)

	require.Len(t, res.Matched, 1)
	assert.Empty(t, res.Missing)
	assert.Equal(t, "X", res.Matched[0].Receipt.OrderID)
	assert.Equal(t, 1, res.Matched[0].Pass)
	assert.Equal(t, 2, res.Matched[0].Score, "zero amount diff, two days apart")
}

func TestMatchSecondPassPicksClosestAmount(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	debits := []model.Transaction{debitOn(day(2, 6), 23.86)}
	pool := []model.Receipt{
		receiptOn("far", day(2, 4), 23.50),
		receiptOn("near", day(2, 4), 23.79),
	}

	res := m.Match("Amazon Inventory", debits, pool)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "near", res.Matched[0].Receipt.OrderID)
	assert.Equal(t, 2, res.Matched[0].Pass)
}

func TestMatchExactFirstPreventsStealing(t *testing.T) {
	// The approximate candidate for the first debit must not consume the
	// receipt that is a perfect match for the second debit.
	m := NewMatcher(defaultTolerances())

	debits := []model.Transaction{
		debitOn(day(1, 10), 50.75), // only approximately matches receipt A
		debitOn(day(1, 11), 50.00), // exactly matches receipt A
	}
	pool := []model.Receipt{receiptOn("A", day(1, 9), 50.00)}

	res := m.Match("Amazon Inventory", debits, pool)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, 50.00, res.Matched[0].Transaction.Amount)
	assert.Equal(t, 1, res.Matched[0].Pass)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, 50.75, res.Missing[0].Transaction.Amount)
}

func TestMatchDateWindow(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	tests := []struct {
		name      string
		debit     time.Time
		receipt   time.Time
		wantMatch bool
	}{
		{name: "within window", debit: day(3, 15), receipt: day(3, 1), wantMatch: true},
		{name: "outside window", debit: day(3, 20), receipt: day(3, 1), wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match("Amazon Inventory",
				[]model.Transaction{debitOn(tt.debit, 10.00)},
				[]model.Receipt{receiptOn("R", tt.receipt, 10.00)})
			if tt.wantMatch {
				assert.Len(t, res.Matched, 1)
			} else {
				assert.Len(t, res.Missing, 1)
			}
		})
	}
}

func TestMatchUndatedReceiptSkipsDateCheck(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	pool := []model.Receipt{{OrderID: "nodate", Source: "amazon-business", GrandTotal: 31.00}}
	res := m.Match("Amazon Inventory", []model.Transaction{debitOn(day(6, 1), 31.00)}, pool)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "nodate", res.Matched[0].Receipt.OrderID)
}

func TestMatchReceiptExclusivity(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	// Three identical debits, two identical receipts: exactly two matches,
	// no receipt referenced twice.
	debits := []model.Transaction{
		debitOn(day(4, 1), 19.99),
		debitOn(day(4, 2), 19.99),
		debitOn(day(4, 3), 19.99),
	}
	pool := []model.Receipt{
		receiptOn("r1", day(4, 1), 19.99),
		receiptOn("r2", day(4, 2), 19.99),
	}

	res := m.Match("Amazon Inventory", debits, pool)

	require.Len(t, res.Matched, 2)
	require.Len(t, res.Missing, 1)
	seen := map[string]bool{}
	for _, mr := range res.Matched {
		require.False(t, seen[mr.Receipt.OrderID], "receipt %s assigned twice", mr.Receipt.OrderID)
		seen[mr.Receipt.OrderID] = true
	}
}

func TestMatchDeterministicWithinRun(t *testing.T) {
	m := NewMatcher(defaultTolerances())

	debits := []model.Transaction{
		debitOn(day(5, 2), 12.00),
		debitOn(day(5, 6), 12.01),
		debitOn(day(5, 9), 47.80),
	}
	pool := []model.Receipt{
		receiptOn("a", day(5, 1), 12.00),
		receiptOn("b", day(5, 7), 12.01),
		receiptOn("c", day(5, 8), 47.15),
	}

	first := m.Match("Amazon Inventory", debits, pool)
	for range 10 {
		again := m.Match("Amazon Inventory", debits, pool)
		require.Equal(t, first, again)
	}
}

func TestMissingAll(t *testing.T) {
	debits := []model.Transaction{
		debitOn(day(7, 1), 16.39),
		debitOn(day(7, 2), 4.92),
	}

	missing := MissingAll("Shipping", debits)

	require.Len(t, missing, 2)
	for _, f := range missing {
		assert.Equal(t, "Shipping", f.Category)
		assert.Equal(t, "no receipt source mapped for category", f.Reason)
	}
}
