package model

// LedgerRow is one line of the chronological running-balance ledger. Balance
// is the account balance after this row's transaction is applied.
type LedgerRow struct {
	Transaction Transaction
	Balance     float64
}

// GapReport exposes the discrepancy between two independently-derived
// measures of the same quantity. Delta = ValueA - ValueB; it is surfaced,
// never corrected or hidden.
type GapReport struct {
	Label  string
	ValueA float64
	ValueB float64
	Delta  float64
}
