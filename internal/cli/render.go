package cli

import (
	"fmt"
	"strings"

	"github.com/KeyComponentMFG/every-penny/internal/engine"
	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

// RenderLedger formats the running-balance ledger as a table.
func RenderLedger(rows []model.LedgerRow) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Running Ledger"))
	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %-40s %12s %12s", "Date", "Description", "Amount", "Balance")))
	b.WriteString("\n")

	for _, row := range rows {
		amount := money.Format(row.Transaction.Amount)
		if row.Transaction.Kind == model.KindDebit {
			amount = "-" + amount
		}
		line := fmt.Sprintf("%-12s %-40s %12s %12s",
			row.Transaction.Date.Format("01/02/2006"),
			truncate(row.Transaction.Description, 40),
			amount,
			money.Format(row.Balance))
		if row.Balance < 0 {
			line = ErrorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderGaps formats the discrepancy report. Balanced lines render green;
// anything with a nonzero delta stands out in yellow.
func RenderGaps(gaps []model.GapReport) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Gap Report"))
	b.WriteString("\n")

	for _, g := range gaps {
		line := fmt.Sprintf("%-45s %12s vs %12s  delta %s",
			g.Label, money.Format(g.ValueA), money.Format(g.ValueB), money.Format(g.Delta))
		if g.Delta == 0 {
			b.WriteString(SuccessStyle.Render(line))
		} else {
			b.WriteString(WarningStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderMatches formats per-category match results, listing missing
// receipts under each category.
func RenderMatches(matches []engine.CategoryMatch) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Receipt Matching"))
	b.WriteString("\n")

	for _, cm := range matches {
		b.WriteString(BoldStyle.Render(cm.Category))
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("  (%d matched, %d missing)", len(cm.Matched), len(cm.Missing))))
		b.WriteString("\n")

		for _, m := range cm.Matched {
			b.WriteString(fmt.Sprintf("  %s  %-40s -> order %s (pass %d)\n",
				m.Transaction.Date.Format("01/02/2006"),
				truncate(m.Transaction.Description, 40),
				m.Receipt.OrderID,
				m.Pass))
		}
		for _, miss := range cm.Missing {
			b.WriteString(WarningStyle.Render(fmt.Sprintf("  %s  %-40s %10s  %s",
				miss.Transaction.Date.Format("01/02/2006"),
				truncate(miss.Transaction.Description, 40),
				money.Format(miss.Transaction.Amount),
				miss.Reason)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderPlatformSummary formats the platform statement totals.
func RenderPlatformSummary(s model.PlatformSummary) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Platform Statement Summary"))
	b.WriteString("\n")

	rows := []struct {
		label string
		value float64
	}{
		{"Gross sales", s.GrossSales},
		{"Fees", -s.Fees},
		{"Shipping labels", -s.Shipping},
		{"Marketing", -s.Marketing},
		{"Refunds", -s.Refunds},
		{"Taxes", -s.Taxes},
		{"Buyer fees", -s.BuyerFees},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %12s\n", row.label, money.Format(row.value)))
	}
	b.WriteString(BoldStyle.Render(fmt.Sprintf("  %-18s %12s", "Net earned", money.Format(s.NetEarned()))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-18s %12s\n", "Paid out", money.Format(s.Deposits)))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("  %d orders", s.OrderCount)))
	b.WriteString("\n")

	return b.String()
}

// RenderIntegrity formats receipt integrity findings.
func RenderIntegrity(findings []model.IntegrityFinding) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Receipt Integrity"))
	b.WriteString("\n")

	if len(findings) == 0 {
		b.WriteString(SuccessStyle.Render("  all receipts internally consistent"))
		b.WriteString("\n")
		return b.String()
	}

	for _, f := range findings {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("  [%s] order %s: %s", f.Kind, f.OrderID, f.Detail)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
