package processors

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/kodelio/cryptrack/src/models"
)

func newCalculator() *TaxCalculator {
	return NewTaxCalculator(NewLotEngine())
}

func TestTaxRate(t *testing.T) {
	tests := []struct {
		year int
		want float64
	}{
		{2024, 0.30},
		{2025, 0.30},
		{2026, 0.314},
		{2030, 0.314},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TaxRate(tt.year))
	}
}

func TestTaxDue_ExemptionThresholdIsACliff(t *testing.T) {
	// Exactly 305 is exempt; a cent above taxes the entire gain.
	assert.Equal(t, 0.0, TaxDue(305, 2025))
	assert.Equal(t, 305.01*0.30, TaxDue(305.01, 2025))
	assert.Equal(t, 0.0, TaxDue(0, 2025))
	assert.Equal(t, 1000*0.314, TaxDue(1000, 2026))
}

func TestCalculateTaxSummary_EndToEnd(t *testing.T) {
	calc := newCalculator()

	summary := calc.CalculateTaxSummary([]models.Transaction{
		buy("2024-01-01", "BTC", 1, 30000, 0),
		sell("2024-06-01", "BTC", 1, 40000, 100),
	}, 2024)

	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, 9900.0, summary.TaxableGains)
	assert.Equal(t, 9900*0.30, summary.TaxDue)
	assert.Equal(t, 30000.0, summary.TotalInvestedEUR)
	assert.Equal(t, 100.0, summary.TotalFeesEUR)
	assert.Equal(t, 0.0, summary.Holdings[models.BTC].Amount)
}

func TestCalculateTaxSummary_IgnoresOtherYears(t *testing.T) {
	calc := newCalculator()

	// The year-scoped mode sees no 2023 basis: the 2024 sale realizes the
	// full proceeds as gain. Known degraded behavior, kept as is.
	summary := calc.CalculateTaxSummary([]models.Transaction{
		buy("2023-01-01", "BTC", 1, 30000, 0),
		sell("2024-06-01", "BTC", 1, 40000, 0),
	}, 2024)

	assert.Equal(t, 0.0, summary.TotalInvestedEUR)
	assert.Equal(t, 40000.0, summary.TaxableGains)
}

func TestCalculateCumulativeSummary_CarriesBasisAcrossYears(t *testing.T) {
	calc := newCalculator()

	txs := []models.Transaction{
		buy("2023-01-01", "BTC", 1, 30000, 0),
		reward("2023-06-01", "BTC", 1), // dilutes basis to 15000/BTC
		sell("2024-06-01", "BTC", 1, 40000, 0),
		buy("2025-01-01", "BTC", 1, 50000, 0), // beyond target year
	}

	summary := calc.CalculateCumulativeSummary(txs, 2024)

	assert.Equal(t, 40000-15000.0, summary.TaxableGains)
	assert.Equal(t, 30000.0, summary.TotalInvestedEUR)
	assert.Equal(t, 1.0, summary.Holdings[models.BTC].Amount)
	assert.Equal(t, 1.0, summary.StakingRewards[models.BTC])
}

func TestCalculateCumulativeSummary_Idempotent(t *testing.T) {
	calc := newCalculator()

	txs := []models.Transaction{
		buy("2024-01-01", "BTC", 1, 30000, 50),
		reward("2024-02-01", "ETH", 0.5),
		sell("2024-06-01", "BTC", 0.5, 20000, 25),
	}

	first := calc.CalculateCumulativeSummary(txs, 2024)
	second := calc.CalculateCumulativeSummary(txs, 2024)
	assert.Equal(t, first, second)
}

func TestSimulateSale(t *testing.T) {
	calc := newCalculator()

	holdings := models.NewHoldings()
	holdings[models.BTC] = &models.Lot{Amount: 2, TotalCost: 60000, AvgCost: 30000}

	sim := calc.SimulateSale(holdings, models.BTC, 1, 45000, 2025)
	assert.Equal(t, 15000.0, sim.Gain)
	assert.Equal(t, 15000*0.30, sim.Tax)

	// Below the threshold nothing is due.
	small := calc.SimulateSale(holdings, models.BTC, 0.5, 30600, 2025)
	assert.Equal(t, 300.0, small.Gain)
	assert.Equal(t, 0.0, small.Tax)

	// A losing what-if owes nothing.
	losing := calc.SimulateSale(holdings, models.BTC, 1, 20000, 2025)
	assert.Equal(t, -10000.0, losing.Gain)
	assert.Equal(t, 0.0, losing.Tax)
}

func TestSimulateSale_DoesNotMutateHoldings(t *testing.T) {
	calc := newCalculator()

	holdings := models.NewHoldings()
	holdings[models.SOL] = &models.Lot{Amount: 10, TotalCost: 1000, AvgCost: 100}

	calc.SimulateSale(holdings, models.SOL, 5, 300, 2025)

	assert.Equal(t, 10.0, holdings[models.SOL].Amount)
	assert.Equal(t, 1000.0, holdings[models.SOL].TotalCost)
	assert.Equal(t, 100.0, holdings[models.SOL].AvgCost)
}
