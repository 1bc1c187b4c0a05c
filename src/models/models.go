package models

// Asset is a tracked crypto asset code.
type Asset string

const (
	BTC Asset = "BTC"
	ETH Asset = "ETH"
	SOL Asset = "SOL"
)

// TrackedAssets lists the assets the accounting engine follows, in display
// order. Events touching anything else are silently skipped.
var TrackedAssets = []Asset{BTC, ETH, SOL}

// IsTracked reports whether the currency code names a tracked asset.
func IsTracked(currency string) bool {
	switch Asset(currency) {
	case BTC, ETH, SOL:
		return true
	}
	return false
}

// Lot holds the running weighted-average position for one asset during an
// accounting pass. AvgCost is always recomputed from TotalCost/Amount, never
// stored independently.
type Lot struct {
	Amount    float64 `json:"amount"`
	TotalCost float64 `json:"totalCost"`
	AvgCost   float64 `json:"avgCost"`
}

// Holdings maps each tracked asset to its running lot.
type Holdings map[Asset]*Lot

// NewHoldings returns zeroed lots for every tracked asset. Each accounting
// pass starts from a fresh set; nothing is persisted between passes.
func NewHoldings() Holdings {
	h := make(Holdings, len(TrackedAssets))
	for _, a := range TrackedAssets {
		h[a] = &Lot{}
	}
	return h
}

// TaxSummary is the computed result for one tax year, or cumulatively
// through a year. Derived, never persisted.
type TaxSummary struct {
	Year             int               `json:"year"`
	TotalInvestedEUR float64           `json:"totalInvestedEUR"`
	TotalFeesEUR     float64           `json:"totalFeesEUR"`
	StakingRewards   map[Asset]float64 `json:"stakingRewards"`
	Holdings         Holdings          `json:"holdings"`
	TaxableGains     float64           `json:"taxableGains"`
	TaxDue           float64           `json:"taxDue"`
}

// CryptoPrices maps tracked assets to their current EUR spot price.
type CryptoPrices map[Asset]float64

// PortfolioValue combines one asset's lot with its live price.
type PortfolioValue struct {
	Asset                 Asset   `json:"crypto"`
	Amount                float64 `json:"amount"`
	AvgCost               float64 `json:"avgCost"`
	TotalCost             float64 `json:"totalCost"`
	CurrentPrice          float64 `json:"currentPrice"`
	CurrentValue          float64 `json:"currentValue"`
	UnrealizedGain        float64 `json:"unrealizedGain"`
	UnrealizedGainPercent float64 `json:"unrealizedGainPercent"`
}
