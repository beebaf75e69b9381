// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// TxnKind indicates which side of the account a transaction sits on.
type TxnKind string

const (
	// KindDeposit represents money entering the account.
	KindDeposit TxnKind = "deposit"
	// KindDebit represents money leaving the account.
	KindDebit TxnKind = "debit"
)

// ParseKind converts a config or storage string into a TxnKind.
func ParseKind(s string) (TxnKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit", "credit":
		return KindDeposit, nil
	case "debit":
		return KindDebit, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction represents a single bank transaction from any statement source.
// It is immutable once parsed; dedup identity is the tuple
// (date, amount, kind, normalized description).
type Transaction struct {
	Date           time.Time
	Description    string // Short cleaned merchant description
	RawDescription string // Description exactly as it appeared in the source
	Category       string
	SourceFile     string
	Amount         float64 // Always non-negative; Kind carries the sign
	Kind           TxnKind
}

// NormalizedDescription returns the description form used for dedup identity:
// the raw description when present, lowercased and whitespace-trimmed.
func (t *Transaction) NormalizedDescription() string {
	desc := t.RawDescription
	if desc == "" {
		desc = t.Description
	}
	return strings.ToLower(strings.TrimSpace(desc))
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Kind,
		t.NormalizedDescription())
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// MonthKey returns the calendar month of the transaction as "YYYY-MM".
func (t *Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// Signed returns the amount with deposit/debit sign applied.
func (t *Transaction) Signed() float64 {
	if t.Kind == KindDebit {
		return -t.Amount
	}
	return t.Amount
}
