package processors

import (
	"github.com/kodelio/cryptrack/src/models"
)

// ExemptionThresholdEUR is the annual disposal-gain exemption. It is a
// cliff: crossing it taxes the entire gain, not just the excess.
const ExemptionThresholdEUR = 305.0

const (
	flatTaxRateThrough2025 = 0.30
	flatTaxRateFrom2026    = 0.314
)

// TaxRate returns the flat-tax rate applicable to a tax year.
func TaxRate(year int) float64 {
	if year >= 2026 {
		return flatTaxRateFrom2026
	}
	return flatTaxRateThrough2025
}

// TaxCalculator builds yearly and cumulative tax summaries on top of the
// lot engine.
type TaxCalculator struct {
	engine *LotEngine
}

func NewTaxCalculator(engine *LotEngine) *TaxCalculator {
	return &TaxCalculator{engine: engine}
}

// CalculateTaxSummary computes the summary over a single year's
// transactions only. Acquisitions from earlier years are not part of the
// cost basis in this mode, so for portfolios with history the cumulative
// variant is the authoritative one; this one is kept for same-year-start
// portfolios and is known to under-state the basis otherwise.
func (c *TaxCalculator) CalculateTaxSummary(transactions []models.Transaction, year int) models.TaxSummary {
	var scoped []models.Transaction
	for _, tx := range transactions {
		if tx.Date.Year() == year {
			scoped = append(scoped, tx)
		}
	}
	return c.summarize(scoped, year)
}

// CalculateCumulativeSummary computes the summary over all transactions up
// to and including the target year, so the basis reflects the full history.
func (c *TaxCalculator) CalculateCumulativeSummary(transactions []models.Transaction, upToYear int) models.TaxSummary {
	var scoped []models.Transaction
	for _, tx := range transactions {
		if tx.Date.Year() <= upToYear {
			scoped = append(scoped, tx)
		}
	}
	return c.summarize(scoped, upToYear)
}

func (c *TaxCalculator) summarize(transactions []models.Transaction, year int) models.TaxSummary {
	holdings, totals := c.engine.Run(transactions, nil, nil)

	rewards := make(map[models.Asset]float64, len(models.TrackedAssets))
	for _, asset := range models.TrackedAssets {
		rewards[asset] = totals.Rewards[asset]
	}

	return models.TaxSummary{
		Year:             year,
		TotalInvestedEUR: totals.InvestedEUR,
		TotalFeesEUR:     totals.FeesEUR,
		StakingRewards:   rewards,
		Holdings:         holdings,
		TaxableGains:     totals.TaxableGains,
		TaxDue:           TaxDue(totals.TaxableGains, year),
	}
}

// TaxDue applies the exemption cliff and the year's flat-tax rate.
func TaxDue(taxableGains float64, year int) float64 {
	if taxableGains > ExemptionThresholdEUR {
		return taxableGains * TaxRate(year)
	}
	return 0
}

// SaleSimulation is the outcome of a hypothetical disposal.
type SaleSimulation struct {
	Gain float64 `json:"gain"`
	Tax  float64 `json:"tax"`
}

// SimulateSale projects the gain and tax of a hypothetical disposal against
// the given lot state without mutating it. The what-if stands alone: its
// gain is not combined with real disposals from the same year.
func (c *TaxCalculator) SimulateSale(holdings models.Holdings, asset models.Asset, quantity, priceEUR float64, year int) SaleSimulation {
	lot, ok := holdings[asset]
	if !ok {
		lot = &models.Lot{}
	}

	acquisitionCost := lot.AvgCost * quantity
	saleValue := quantity * priceEUR
	gain := saleValue - acquisitionCost

	tax := 0.0
	if gain > ExemptionThresholdEUR {
		tax = gain * TaxRate(year)
	}

	return SaleSimulation{Gain: gain, Tax: tax}
}
