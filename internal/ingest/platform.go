package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

// Platform statement row types.
const (
	PlatformTypeSale      = "Sale"
	PlatformTypeFee       = "Fee"
	PlatformTypeShipping  = "Shipping"
	PlatformTypeMarketing = "Marketing"
	PlatformTypeRefund    = "Refund"
	PlatformTypeTax       = "Tax"
	PlatformTypeBuyerFee  = "Buyer Fee"
	PlatformTypeDeposit   = "Deposit"
)

// ParsePlatformCSV reads a selling-platform statement export with Date,
// Type, Title, Info and Net columns. Net values pass through the lenient
// money parser, so sentinel cells ("--") read as zero instead of failing
// the file.
func ParsePlatformCSV(reader io.Reader, sourceFile string) ([]model.PlatformRow, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read platform CSV header %s: %w", sourceFile, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")] = i
	}
	for _, required := range []string{"Type", "Net"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("platform CSV %s missing column %q", sourceFile, required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []model.PlatformRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable platform CSV row",
				"source_file", sourceFile, "error", err)
			continue
		}
		rows = append(rows, model.PlatformRow{
			Date:  parseReceiptDate(field(record, "Date")),
			Type:  field(record, "Type"),
			Title: field(record, "Title"),
			Info:  field(record, "Info"),
			Net:   money.Parse(field(record, "Net")),
		})
	}
	return rows, nil
}

// Summarize aggregates statement rows by type. Cost types carry negative
// Net values on the statement; the summary stores their magnitudes so
// report code never has to reason about sign conventions.
func Summarize(rows []model.PlatformRow) model.PlatformSummary {
	summary := model.PlatformSummary{ByType: make(map[string]float64)}
	for _, row := range rows {
		summary.ByType[row.Type] += row.Net
		switch row.Type {
		case PlatformTypeSale:
			summary.GrossSales += row.Net
			summary.OrderCount++
		case PlatformTypeFee:
			summary.Fees += -row.Net
		case PlatformTypeShipping:
			summary.Shipping += -row.Net
		case PlatformTypeMarketing:
			summary.Marketing += -row.Net
		case PlatformTypeRefund:
			summary.Refunds += -row.Net
		case PlatformTypeTax:
			summary.Taxes += -row.Net
		case PlatformTypeBuyerFee:
			summary.BuyerFees += -row.Net
		case PlatformTypeDeposit:
			summary.Deposits += -row.Net
		}
	}
	summary.GrossSales = money.Round2(summary.GrossSales)
	summary.Fees = money.Round2(summary.Fees)
	summary.Shipping = money.Round2(summary.Shipping)
	summary.Marketing = money.Round2(summary.Marketing)
	summary.Refunds = money.Round2(summary.Refunds)
	summary.Taxes = money.Round2(summary.Taxes)
	summary.BuyerFees = money.Round2(summary.BuyerFees)
	summary.Deposits = money.Round2(summary.Deposits)
	for typ, net := range summary.ByType {
		summary.ByType[typ] = money.Round2(net)
	}
	return summary
}
