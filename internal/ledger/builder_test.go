package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func txn(date time.Time, amount float64, kind model.TxnKind) model.Transaction {
	return model.Transaction{Date: date, Amount: amount, Kind: kind, Description: "t"}
}

func TestBuildDepositsBeforeDebitsSameDay(t *testing.T) {
	d := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		txn(d, 30.00, model.KindDebit),
		txn(d, 100.00, model.KindDeposit),
		txn(d, 50.00, model.KindDeposit),
	}

	rows := Build(txns)

	require.Len(t, rows, 3)
	assert.Equal(t, 100.00, rows[0].Balance)
	assert.Equal(t, 150.00, rows[1].Balance)
	assert.Equal(t, 120.00, rows[2].Balance)
	assert.Equal(t, model.KindDebit, rows[2].Transaction.Kind)
}

func TestBuildInterleavedKinds(t *testing.T) {
	txns := []model.Transaction{
		txn(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 100.00, model.KindDeposit),
		txn(time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), 30.00, model.KindDebit),
		txn(time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC), 50.00, model.KindDeposit),
	}

	rows := Build(txns)

	require.Len(t, rows, 3)
	assert.Equal(t, 100.00, rows[0].Balance)
	assert.Equal(t, 70.00, rows[1].Balance)
	assert.Equal(t, 120.00, rows[2].Balance)
}

func TestBuildChronological(t *testing.T) {
	txns := []model.Transaction{
		txn(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 20.00, model.KindDebit),
		txn(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 75.50, model.KindDeposit),
	}

	rows := Build(txns)

	require.Len(t, rows, 2)
	assert.Equal(t, 75.50, rows[0].Balance)
	assert.Equal(t, 55.50, rows[1].Balance)
}

func TestBuildRoundsEachBalance(t *testing.T) {
	d := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		txn(d, 0.1, model.KindDeposit),
		txn(d.AddDate(0, 0, 1), 0.2, model.KindDeposit),
	}

	rows := Build(txns)
	assert.Equal(t, 0.3, rows[1].Balance)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	txns := []model.Transaction{
		txn(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 5, model.KindDebit),
		txn(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 9, model.KindDeposit),
	}
	Build(txns)
	assert.Equal(t, model.KindDebit, txns[0].Kind, "input order must be preserved")
}

func TestFinalBalanceMatchesTotals(t *testing.T) {
	txns := []model.Transaction{
		txn(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), 120.13, model.KindDeposit),
		txn(time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), 33.07, model.KindDebit),
		txn(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), 18.60, model.KindDeposit),
	}

	rows := Build(txns)
	deposits, debits := Totals(txns)
	assert.InDelta(t, deposits-debits, FinalBalance(rows), 0.001)
}

func TestFinalBalanceEmpty(t *testing.T) {
	assert.Equal(t, 0.0, FinalBalance(nil))
}
