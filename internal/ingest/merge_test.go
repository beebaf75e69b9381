package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func bankTxn(date string, amount float64, kind model.TxnKind, desc string) model.Transaction {
	d, _ := time.Parse("01/02/2006", date)
	return model.Transaction{
		Date:           d,
		Description:    desc,
		RawDescription: desc,
		Amount:         amount,
		Kind:           kind,
	}
}

func statement(source string, txns ...model.Transaction) *BankStatement {
	stmt := &BankStatement{CoveredMonths: make(map[string]bool), SourceFile: source}
	for i := range txns {
		txns[i].SourceFile = source
		stmt.CoveredMonths[txns[i].MonthKey()] = true
	}
	stmt.Transactions = txns
	return stmt
}

func TestMergeStatementsPriorityWinsMonth(t *testing.T) {
	priority := statement("dec.pdf",
		bankTxn("12/10/2025", 1287.26, model.KindDeposit, "ETSY PAYOUT"))
	convenience := statement("download.csv",
		bankTxn("12/10/2025", 1287.26, model.KindDeposit, "ETSY PAYOUT"),
		bankTxn("01/05/2026", 44.16, model.KindDebit, "AMAZON MKTPL"))

	res := MergeStatements([]*BankStatement{priority}, []*BankStatement{convenience})

	require.Len(t, res.Transactions, 2, "December row comes from the statement only")
	assert.Equal(t, "dec.pdf", res.Transactions[0].SourceFile)
	assert.Equal(t, "download.csv", res.Transactions[1].SourceFile)
	assert.True(t, res.CoveredMonths["2025-12"])
	assert.True(t, res.CoveredMonths["2026-01"])
}

func TestMergeStatementsPriorityImportedTwice(t *testing.T) {
	payout := bankTxn("12/10/2025", 1287.26, model.KindDeposit, "ETSY PAYOUT")
	first := statement("dec.pdf", payout)
	second := statement("dec_again.pdf", payout)

	res := MergeStatements([]*BankStatement{first, second}, nil)

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "dec_again.pdf", res.Transactions[0].SourceFile)
}

func TestMergeStatementsConvenienceDedupLastWriteWins(t *testing.T) {
	older := statement("jan_v1.csv",
		bankTxn("01/05/2026", 44.16, model.KindDebit, "AMAZON MKTPL"))
	newerTxn := bankTxn("01/05/2026", 44.16, model.KindDebit, "AMAZON MKTPL")
	newerTxn.Category = "Amazon Inventory"
	newer := statement("jan_v2.csv", newerTxn)

	res := MergeStatements(nil, []*BankStatement{older, newer})

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "jan_v2.csv", res.Transactions[0].SourceFile)
	assert.Equal(t, "Amazon Inventory", res.Transactions[0].Category)
}

func TestMergeStatementsOverlappingFilesUnion(t *testing.T) {
	shared := bankTxn("02/10/2025", 25.00, model.KindDebit, "USPS")
	first := statement("feb_a.csv", shared)
	second := statement("feb_b.csv", shared,
		bankTxn("02/14/2025", 12.50, model.KindDebit, "ULINE"))

	res := MergeStatements(nil, []*BankStatement{first, second})

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "USPS", res.Transactions[0].Description)
	assert.Equal(t, "ULINE", res.Transactions[1].Description)
}

func TestMergeStatementsDistinctSameDaySameAmount(t *testing.T) {
	// Same day, same amount, different merchants: both rows survive.
	conv := statement("jan.csv",
		bankTxn("01/05/2026", 10.00, model.KindDebit, "MERCHANT A"),
		bankTxn("01/05/2026", 10.00, model.KindDebit, "MERCHANT B"))

	res := MergeStatements(nil, []*BankStatement{conv})
	assert.Len(t, res.Transactions, 2)
}

func TestMergeStatementsIdempotent(t *testing.T) {
	priority := []*BankStatement{statement("dec.pdf",
		bankTxn("12/10/2025", 100, model.KindDeposit, "PAYOUT"))}
	convenience := []*BankStatement{statement("jan.csv",
		bankTxn("01/05/2026", 50, model.KindDebit, "SUPPLIES"))}

	first := MergeStatements(priority, convenience)
	second := MergeStatements(priority, convenience)
	assert.Equal(t, first, second)
}

func TestApplyOverridesRecategorize(t *testing.T) {
	txns := []model.Transaction{
		bankTxn("01/05/2026", 29.00, model.KindDebit, "ETSY COM US"),
		bankTxn("01/06/2026", 10.00, model.KindDebit, "USPS CLICKNSHIP"),
	}
	overrides := []config.TransactionOverride{{
		Action:   "recategorize",
		Category: "Platform Fees",
		Match:    config.OverrideMatch{DescContains: "etsy com"},
	}}

	out := ApplyOverrides(txns, overrides)

	require.Len(t, out, 2)
	assert.Equal(t, "Platform Fees", out[0].Category)
	assert.Empty(t, out[1].Category)
	assert.Empty(t, txns[0].Category, "input is not mutated")
}

func TestApplyOverridesSplit(t *testing.T) {
	amount := 100.00
	txns := []model.Transaction{bankTxn("01/05/2026", 100.00, model.KindDebit, "COSTCO")}
	overrides := []config.TransactionOverride{{
		Action: "split",
		Match:  config.OverrideMatch{DescContains: "COSTCO", Amount: &amount},
		Splits: []config.OverrideSplit{
			{Category: "Craft Supplies", Amount: 60.00},
			{Category: "Personal", Amount: 40.00},
		},
	}}

	out := ApplyOverrides(txns, overrides)

	require.Len(t, out, 2)
	assert.Equal(t, 60.00, out[0].Amount)
	assert.Equal(t, "Craft Supplies", out[0].Category)
	assert.Equal(t, 40.00, out[1].Amount)
	assert.Equal(t, "Personal", out[1].Category)
	assert.Equal(t, out[0].Amount+out[1].Amount, txns[0].Amount, "splits preserve the total")
}

func TestApplyOverridesDateAndAmountFilters(t *testing.T) {
	wrongAmount := 99.00
	txns := []model.Transaction{bankTxn("01/05/2026", 100.00, model.KindDebit, "COSTCO")}

	out := ApplyOverrides(txns, []config.TransactionOverride{{
		Action:   "recategorize",
		Category: "X",
		Match:    config.OverrideMatch{DescContains: "COSTCO", Amount: &wrongAmount},
	}})
	assert.Empty(t, out[0].Category, "amount mismatch skips the override")

	out = ApplyOverrides(txns, []config.TransactionOverride{{
		Action:   "recategorize",
		Category: "X",
		Match:    config.OverrideMatch{DatePrefix: "02/"},
	}})
	assert.Empty(t, out[0].Category, "date prefix mismatch skips the override")
}

func TestAppendManualSkipsCoveredMonths(t *testing.T) {
	covered := map[string]bool{"2025-12": true}
	manual := []config.ManualTransaction{
		{Date: "12/15/2025", Description: "OLD DEBIT", Kind: "debit", Category: "Shipping", Amount: 5.00},
		{Date: "11/20/2025", Description: "EARLY PAYOUT", Kind: "deposit", Category: "Platform Payout", Amount: 200.00},
	}

	out, err := AppendManual(nil, covered, manual)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "EARLY PAYOUT", out[0].Description)
	assert.Equal(t, model.KindDeposit, out[0].Kind)
	assert.Equal(t, ManualSourceFile, out[0].SourceFile)
}

func TestAppendManualRejectsBadInput(t *testing.T) {
	_, err := AppendManual(nil, nil, []config.ManualTransaction{{Date: "2025-12-15", Kind: "debit"}})
	assert.Error(t, err, "dates must be MM/DD/YYYY")

	_, err = AppendManual(nil, nil, []config.ManualTransaction{{Date: "12/15/2025", Kind: "withdrawal"}})
	assert.Error(t, err)
}

func TestSortChronological(t *testing.T) {
	txns := []model.Transaction{
		bankTxn("01/05/2026", 30, model.KindDebit, "B"),
		bankTxn("01/05/2026", 100, model.KindDeposit, "A"),
		bankTxn("01/04/2026", 10, model.KindDebit, "C"),
	}
	SortChronological(txns)

	assert.Equal(t, "C", txns[0].Description)
	assert.Equal(t, model.KindDeposit, txns[1].Kind, "deposits sort before debits on the same day")
}
