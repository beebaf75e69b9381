package model

import (
	"math"
	"time"
)

// LineItem is a single purchased item on a receipt.
type LineItem struct {
	Name      string
	Seller    string
	Qty       int
	UnitPrice float64
}

// Receipt represents one purchase order pulled from an invoice or order
// confirmation. Date may be zero when the source document carried no
// parseable date.
type Receipt struct {
	Date       time.Time
	OrderID    string
	Source     string // Which merchant/account produced it (e.g. "amazon-business")
	SourceFile string
	Items      []LineItem
	Subtotal   float64
	Tax        float64
	GrandTotal float64
}

// HasDate reports whether the receipt carries a usable calendar date.
func (r *Receipt) HasDate() bool {
	return !r.Date.IsZero()
}

// TotalsGap returns the signed difference between the stated grand total and
// subtotal + tax. Ingestion surfaces a nonzero gap as an integrity finding.
func (r *Receipt) TotalsGap() float64 {
	return math.Round((r.GrandTotal-(r.Subtotal+r.Tax))*100) / 100
}

// MonthKey returns the calendar month of the receipt as "YYYY-MM", or ""
// when the receipt has no date.
func (r *Receipt) MonthKey() string {
	if !r.HasDate() {
		return ""
	}
	return r.Date.Format("2006-01")
}
