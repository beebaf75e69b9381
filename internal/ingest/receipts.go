package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// receiptDateLayouts covers the formats receipt exporters actually emit.
var receiptDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"2006-01-02",
}

type rawLineItem struct {
	Name   string  `json:"name"`
	Seller string  `json:"seller"`
	Qty    int     `json:"qty"`
	Price  float64 `json:"price"`
}

type rawReceipt struct {
	OrderID    string        `json:"order_id"`
	Date       string        `json:"date"`
	OrderDate  string        `json:"order_date"`
	Source     string        `json:"source"`
	Subtotal   float64       `json:"subtotal"`
	Tax        float64       `json:"tax"`
	GrandTotal *float64      `json:"grand_total"`
	Total      *float64      `json:"total"`
	Items      []rawLineItem `json:"items"`
}

// ParseReceiptsJSON reads an exported order list. Receipts with an
// unparseable or missing date are kept with a zero date; the matcher
// skips the date-window check for those. A missing grand_total falls back
// to the legacy total field.
func ParseReceiptsJSON(reader io.Reader, source, sourceFile string) ([]model.Receipt, error) {
	var raws []rawReceipt
	if err := json.NewDecoder(reader).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to parse receipts %s: %w", sourceFile, err)
	}

	receipts := make([]model.Receipt, 0, len(raws))
	for _, r := range raws {
		receipt := model.Receipt{
			OrderID:    r.OrderID,
			Source:     source,
			SourceFile: sourceFile,
			Subtotal:   r.Subtotal,
			Tax:        r.Tax,
			Date:       parseReceiptDate(firstNonEmpty(r.Date, r.OrderDate)),
		}
		switch {
		case r.GrandTotal != nil:
			receipt.GrandTotal = *r.GrandTotal
		case r.Total != nil:
			receipt.GrandTotal = *r.Total
		}
		for _, item := range r.Items {
			receipt.Items = append(receipt.Items, model.LineItem{
				Name:      item.Name,
				Seller:    item.Seller,
				Qty:       item.Qty,
				UnitPrice: item.Price,
			})
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func parseReceiptDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "unknown") {
		return time.Time{}
	}
	for _, layout := range receiptDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
