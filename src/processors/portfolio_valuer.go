package processors

import (
	"github.com/kodelio/cryptrack/src/models"
)

// PortfolioValuer combines lot state with live market prices to produce
// unrealized gain figures. Pure function of its inputs; assets without a
// position are left out.
type PortfolioValuer struct{}

func NewPortfolioValuer() *PortfolioValuer {
	return &PortfolioValuer{}
}

func (v *PortfolioValuer) Valuations(holdings models.Holdings, prices models.CryptoPrices) []models.PortfolioValue {
	values := []models.PortfolioValue{}
	for _, asset := range models.TrackedAssets {
		lot, ok := holdings[asset]
		if !ok || lot.Amount <= 0 {
			continue
		}

		currentPrice := prices[asset]
		currentValue := lot.Amount * currentPrice
		unrealizedGain := currentValue - lot.TotalCost
		unrealizedGainPercent := 0.0
		if lot.TotalCost > 0 {
			unrealizedGainPercent = unrealizedGain / lot.TotalCost * 100
		}

		values = append(values, models.PortfolioValue{
			Asset:                 asset,
			Amount:                lot.Amount,
			AvgCost:               lot.AvgCost,
			TotalCost:             lot.TotalCost,
			CurrentPrice:          currentPrice,
			CurrentValue:          currentValue,
			UnrealizedGain:        unrealizedGain,
			UnrealizedGainPercent: unrealizedGainPercent,
		})
	}
	return values
}

// TotalValue sums the market value of all included assets.
func TotalValue(values []models.PortfolioValue) float64 {
	total := 0.0
	for _, v := range values {
		total += v.CurrentValue
	}
	return total
}

// TotalUnrealizedGain sums the unrealized gain of all included assets.
func TotalUnrealizedGain(values []models.PortfolioValue) float64 {
	total := 0.0
	for _, v := range values {
		total += v.UnrealizedGain
	}
	return total
}

// TotalCost sums the cost basis of all included assets.
func TotalCost(values []models.PortfolioValue) float64 {
	total := 0.0
	for _, v := range values {
		total += v.TotalCost
	}
	return total
}
