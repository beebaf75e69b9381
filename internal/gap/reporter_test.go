package gap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func TestCompareRoundsDelta(t *testing.T) {
	report := Compare("test", 100.005, 99.994)
	assert.Equal(t, 100.01, report.ValueA)
	assert.Equal(t, 99.99, report.ValueB)
	assert.Equal(t, 0.01, report.Delta)
}

func TestCompareZeroGap(t *testing.T) {
	report := Compare("even", 42.00, 42.00)
	assert.Equal(t, 0.0, report.Delta)
}

func TestPlatformBalance(t *testing.T) {
	summary := model.PlatformSummary{
		GrossSales: 1000.00,
		Fees:       65.00,
		Shipping:   40.00,
		Deposits:   700.00,
	}
	// net earned 895, minus 700 deposited, minus 50 prior = 145 on hand.
	report := PlatformBalance(summary, 150.00, 50.00)

	assert.Equal(t, 145.00, report.ValueA)
	assert.Equal(t, 150.00, report.ValueB)
	assert.Equal(t, -5.00, report.Delta)
}

func TestPayoutsVsDeposits(t *testing.T) {
	report := PayoutsVsDeposits(700.00, 681.25)
	assert.Equal(t, 18.75, report.Delta)
}

func TestMonthlyClosings(t *testing.T) {
	rows := []model.LedgerRow{
		{Transaction: model.Transaction{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}, Balance: 100.00},
		{Transaction: model.Transaction{Date: time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)}, Balance: 310.42},
		{Transaction: model.Transaction{Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)}, Balance: 290.00},
	}
	closings := map[string]float64{
		"2025-01": 310.42,
		"2025-02": 295.00,
		"2025-03": 290.00, // no activity; balance carries forward
	}

	reports := MonthlyClosings(rows, closings)

	require.Len(t, reports, 3)
	assert.Equal(t, 0.0, reports[0].Delta)
	assert.Equal(t, -5.00, reports[1].Delta)
	assert.Equal(t, 0.0, reports[2].Delta, "quiet month reconciles against the carried balance")
}

func TestMonthlyClosingsBeforeAnyActivity(t *testing.T) {
	rows := []model.LedgerRow{
		{Transaction: model.Transaction{Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)}, Balance: 150.00},
	}
	closings := map[string]float64{"2024-12": 75.00}

	reports := MonthlyClosings(rows, closings)

	require.Len(t, reports, 1)
	assert.Equal(t, -75.00, reports[0].Delta, "month before any activity compares against zero")
}

func TestMonthlyClosingsNoConfig(t *testing.T) {
	assert.Nil(t, MonthlyClosings(nil, nil))
}
