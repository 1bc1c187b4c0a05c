package processors

import (
	"sort"

	"github.com/kodelio/cryptrack/src/models"
)

// Disposal captures one Sell event as seen by the accounting pass, with the
// cost basis in force at the moment of disposal.
type Disposal struct {
	Tx              models.Transaction
	Asset           models.Asset
	Quantity        float64
	ProceedsEUR     float64
	FeeEUR          float64
	AcquisitionCost float64
	Gain            float64
}

// PassTotals aggregates what one accounting pass observed.
type PassTotals struct {
	InvestedEUR  float64
	FeesEUR      float64
	TaxableGains float64
	Rewards      map[models.Asset]float64
}

// LotEngine runs the weighted-average acquisition cost (PAMP) algorithm over
// a transaction stream. One engine instance is shared by the tax summary
// calculator and the Form 2086 builder; every pass allocates fresh lot state,
// so concurrent passes are safe.
type LotEngine struct{}

func NewLotEngine() *LotEngine {
	return &LotEngine{}
}

// Run processes the given transactions in ascending date order and returns
// the ending lot state per asset together with the pass totals.
//
// taxable selects which Sell events count toward the taxable-gains total and
// are reported through onDisposal; every Sell still updates the running lot
// regardless, since the cost basis must reflect the full history. onDisposal
// may be nil.
//
// Events touching a currency outside the tracked set are skipped silently,
// and a Sell exceeding the tracked position is not rejected: the lot simply
// goes negative, mirroring the ledger it was fed.
func (e *LotEngine) Run(transactions []models.Transaction, taxable func(models.Transaction) bool, onDisposal func(Disposal)) (models.Holdings, PassTotals) {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	holdings := models.NewHoldings()
	totals := PassTotals{Rewards: make(map[models.Asset]float64)}

	for _, tx := range sorted {
		switch {
		case tx.Type == models.TypeTrade && tx.TradeType == models.TradeBuy:
			e.applyBuy(tx, holdings, &totals)
		case tx.Type == models.TypeTrade && tx.TradeType == models.TradeSell:
			e.applySell(tx, holdings, &totals, taxable, onDisposal)
		case tx.Type == models.TypeReward:
			e.applyReward(tx, holdings, &totals)
		}
	}

	return holdings, totals
}

// applyBuy folds an EUR -> crypto acquisition into the weighted average.
// sentAmount is taken as already EUR-denominated; the fee joins the cost
// basis only when it was charged in EUR.
func (e *LotEngine) applyBuy(tx models.Transaction, holdings models.Holdings, totals *PassTotals) {
	if !models.IsTracked(tx.ReceivedCurrency) {
		return
	}
	lot := holdings[models.Asset(tx.ReceivedCurrency)]

	costEUR := tx.SentAmountOrZero()
	feeEUR := eurFee(tx)

	newTotalCost := lot.TotalCost + costEUR + feeEUR
	newAmount := lot.Amount + tx.ReceivedAmount

	lot.Amount = newAmount
	lot.TotalCost = newTotalCost
	if newAmount > 0 {
		lot.AvgCost = newTotalCost / newAmount
	} else {
		lot.AvgCost = 0
	}

	totals.InvestedEUR += costEUR
	totals.FeesEUR += feeEUR
}

// applySell realizes a gain against the current average cost. The lot's
// total cost shrinks by the acquisition cost of the sold quantity, not by
// the proceeds, which leaves the average cost of the remainder unchanged.
func (e *LotEngine) applySell(tx models.Transaction, holdings models.Holdings, totals *PassTotals, taxable func(models.Transaction) bool, onDisposal func(Disposal)) {
	if !models.IsTracked(tx.SentCurrency) {
		return
	}
	asset := models.Asset(tx.SentCurrency)
	lot := holdings[asset]

	quantity := tx.SentAmountOrZero()
	proceedsEUR := tx.ReceivedAmount
	feeEUR := eurFee(tx)

	acquisitionCost := lot.AvgCost * quantity
	gain := proceedsEUR - acquisitionCost - feeEUR

	if taxable == nil || taxable(tx) {
		// Only positive per-disposal gains accumulate; losses are not
		// netted against other gains in the running total.
		if gain > 0 {
			totals.TaxableGains += gain
		}
		if onDisposal != nil {
			onDisposal(Disposal{
				Tx:              tx,
				Asset:           asset,
				Quantity:        quantity,
				ProceedsEUR:     proceedsEUR,
				FeeEUR:          feeEUR,
				AcquisitionCost: acquisitionCost,
				Gain:            gain,
			})
		}
	}

	lot.Amount -= quantity
	lot.TotalCost -= acquisitionCost
	totals.FeesEUR += feeEUR
}

// applyReward adds staking income at zero cost basis: the total cost is
// untouched while the amount grows, which dilutes the average cost.
func (e *LotEngine) applyReward(tx models.Transaction, holdings models.Holdings, totals *PassTotals) {
	if !models.IsTracked(tx.ReceivedCurrency) {
		return
	}
	asset := models.Asset(tx.ReceivedCurrency)
	lot := holdings[asset]

	totals.Rewards[asset] += tx.ReceivedAmount
	lot.Amount += tx.ReceivedAmount
	if lot.Amount > 0 {
		lot.AvgCost = lot.TotalCost / lot.Amount
	}
}

func eurFee(tx models.Transaction) float64 {
	if tx.FeeCurrency == "EUR" {
		return tx.FeeAmount
	}
	return 0
}
