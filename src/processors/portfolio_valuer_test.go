package processors

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/kodelio/cryptrack/src/models"
)

func TestPortfolioValuer_Valuations(t *testing.T) {
	valuer := NewPortfolioValuer()

	holdings := models.NewHoldings()
	holdings[models.BTC] = &models.Lot{Amount: 2, TotalCost: 60000, AvgCost: 30000}
	holdings[models.SOL] = &models.Lot{Amount: 10, TotalCost: 1500, AvgCost: 150}

	prices := models.CryptoPrices{
		models.BTC: 95000,
		models.ETH: 3200,
		models.SOL: 200,
	}

	values := valuer.Valuations(holdings, prices)

	// ETH has no position and is excluded; order follows the tracked set.
	assert.Equal(t, 2, len(values))
	assert.Equal(t, models.BTC, values[0].Asset)
	assert.Equal(t, models.SOL, values[1].Asset)

	btc := values[0]
	assert.Equal(t, 190000.0, btc.CurrentValue)
	assert.Equal(t, 130000.0, btc.UnrealizedGain)
	assert.Equal(t, 130000.0/60000*100, btc.UnrealizedGainPercent)

	sol := values[1]
	assert.Equal(t, 2000.0, sol.CurrentValue)
	assert.Equal(t, 500.0, sol.UnrealizedGain)
}

func TestPortfolioValuer_ZeroCostBasis(t *testing.T) {
	valuer := NewPortfolioValuer()

	// Pure staking position: whole value is gain, percent stays zero.
	holdings := models.NewHoldings()
	holdings[models.ETH] = &models.Lot{Amount: 1, TotalCost: 0, AvgCost: 0}

	values := valuer.Valuations(holdings, models.CryptoPrices{models.ETH: 3200})
	assert.Equal(t, 1, len(values))
	assert.Equal(t, 3200.0, values[0].UnrealizedGain)
	assert.Equal(t, 0.0, values[0].UnrealizedGainPercent)
}

func TestPortfolioValuer_EmptyHoldings(t *testing.T) {
	valuer := NewPortfolioValuer()

	values := valuer.Valuations(models.NewHoldings(), models.CryptoPrices{})
	assert.Equal(t, 0, len(values))
}

func TestPortfolioTotals(t *testing.T) {
	values := []models.PortfolioValue{
		{CurrentValue: 190000, TotalCost: 60000, UnrealizedGain: 130000},
		{CurrentValue: 2000, TotalCost: 1500, UnrealizedGain: 500},
	}

	assert.Equal(t, 192000.0, TotalValue(values))
	assert.Equal(t, 61500.0, TotalCost(values))
	assert.Equal(t, 130500.0, TotalUnrealizedGain(values))
}
