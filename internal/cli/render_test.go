package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KeyComponentMFG/every-penny/internal/engine"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func TestRenderLedger(t *testing.T) {
	rows := []model.LedgerRow{
		{Transaction: model.Transaction{
			Date:        time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
			Description: "ETSY PAYOUT",
			Amount:      1287.26,
			Kind:        model.KindDeposit,
		}, Balance: 1287.26},
		{Transaction: model.Transaction{
			Date:        time.Date(2025, 12, 12, 0, 0, 0, 0, time.UTC),
			Description: "AMAZON MKTPL",
			Amount:      44.16,
			Kind:        model.KindDebit,
		}, Balance: 1243.10},
	}

	out := RenderLedger(rows)

	assert.Contains(t, out, "ETSY PAYOUT")
	assert.Contains(t, out, "$1,287.26")
	assert.Contains(t, out, "-$44.16")
	assert.Contains(t, out, "$1,243.10")
}

func TestRenderGaps(t *testing.T) {
	out := RenderGaps([]model.GapReport{
		{Label: "platform payouts vs bank deposits", ValueA: 700.00, ValueB: 681.25, Delta: 18.75},
		{Label: "ledger vs statement closing 2025-12", ValueA: 450.92, ValueB: 450.92, Delta: 0},
	})

	assert.Contains(t, out, "platform payouts vs bank deposits")
	assert.Contains(t, out, "$18.75")
	assert.Contains(t, out, "2025-12")
}

func TestRenderMatches(t *testing.T) {
	matches := []engine.CategoryMatch{{
		Category: "Amazon Inventory",
		Matched: []model.MatchResult{{
			Receipt: &model.Receipt{OrderID: "111-222"},
			Transaction: model.Transaction{
				Date:        time.Date(2025, 12, 12, 0, 0, 0, 0, time.UTC),
				Description: "AMAZON MKTPL",
				Amount:      44.16,
				Kind:        model.KindDebit,
			},
			Pass:    1,
			Matched: true,
		}},
		Missing: []model.MissingReceipt{{
			Transaction: model.Transaction{
				Date:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				Description: "AMAZON MKTPL XO7",
				Amount:      51.68,
				Kind:        model.KindDebit,
			},
			Category: "Amazon Inventory",
			Reason:   "no receipt within tolerance",
		}},
	}}

	out := RenderMatches(matches)

	assert.Contains(t, out, "Amazon Inventory")
	assert.Contains(t, out, "1 matched, 1 missing")
	assert.Contains(t, out, "order 111-222")
	assert.Contains(t, out, "no receipt within tolerance")
}

func TestRenderPlatformSummary(t *testing.T) {
	out := RenderPlatformSummary(model.PlatformSummary{
		GrossSales: 1000.00,
		Fees:       65.00,
		Deposits:   700.00,
		OrderCount: 31,
	})

	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "-$65.00")
	assert.Contains(t, out, "$935.00")
	assert.Contains(t, out, "31 orders")
}

func TestRenderIntegrity(t *testing.T) {
	clean := RenderIntegrity(nil)
	assert.Contains(t, clean, "internally consistent")

	flagged := RenderIntegrity([]model.IntegrityFinding{{
		Kind:    model.IntegrityTotalsMismatch,
		OrderID: "111",
		Detail:  "grand total $50.00 but subtotal $40.00 + tax $3.00 = $43.00",
	}})
	assert.Contains(t, flagged, "order 111")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "very long…", truncate("very long text", 10))
}
