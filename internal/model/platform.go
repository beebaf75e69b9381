package model

import "time"

// PlatformRow is one line of a selling-platform statement export (sales,
// fees, shipping labels, marketing, refunds, taxes, deposits).
type PlatformRow struct {
	Date  time.Time
	Type  string
	Title string
	Info  string
	Net   float64 // Signed: sales positive, costs negative
}

// PlatformSummary aggregates a platform statement by row type. All cost
// figures are stored as positive magnitudes.
type PlatformSummary struct {
	ByType     map[string]float64
	GrossSales float64
	Fees       float64
	Shipping   float64
	Marketing  float64
	Refunds    float64
	Taxes      float64
	BuyerFees  float64
	Deposits   float64
	OrderCount int
}

// NetEarned is what the platform owes after its own costs: gross sales less
// fees, shipping labels, marketing, refunds, taxes, and buyer fees.
func (s *PlatformSummary) NetEarned() float64 {
	return s.GrossSales - s.Fees - s.Shipping - s.Marketing - s.Refunds - s.Taxes - s.BuyerFees
}
