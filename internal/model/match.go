package model

// MatchResult pairs one bank debit with the receipt chosen for it. A nil
// Receipt means no receipt was found; that is a reportable outcome, not an
// error.
type MatchResult struct {
	Receipt     *Receipt
	Transaction Transaction
	Score       int  // Composite amount/date distance; meaningful only when Matched
	Pass        int  // Which tolerance pass produced the match (1 or 2)
	Matched     bool
}

// MissingReceipt is a bank debit for which no receipt could be matched in
// either pass, or whose category has no mapped receipt source at all.
type MissingReceipt struct {
	Transaction Transaction
	Category    string
	Reason      string
}

// IntegrityKind classifies a data-integrity finding raised during ingestion.
type IntegrityKind string

const (
	// IntegrityTotalsMismatch flags a receipt whose grand total disagrees
	// with subtotal + tax.
	IntegrityTotalsMismatch IntegrityKind = "totals_mismatch"
	// IntegrityDuplicateOrder flags a receipt whose order ID was already
	// present in the pool.
	IntegrityDuplicateOrder IntegrityKind = "duplicate_order"
)

// IntegrityFinding is a typed, non-fatal data problem surfaced to the caller.
type IntegrityFinding struct {
	Kind    IntegrityKind
	OrderID string
	Detail  string
	Amount  float64
}
