package models

import "time"

// RawLedgerEntry represents a single record from the ledger CSV file.
// All fields are kept as text; parsing happens in the normalizer so the
// stored ledger stays the single source of truth.
type RawLedgerEntry struct {
	Type             string `json:"type"`
	Date             string `json:"date"`
	Timezone         string `json:"timezone"`
	ReceivedAmount   string `json:"received_amount"`
	ReceivedCurrency string `json:"received_currency"`
	SentAmount       string `json:"sent_amount"`
	SentCurrency     string `json:"sent_currency"`
	FeeAmount        string `json:"fee_amount"`
	FeeCurrency      string `json:"fee_currency"`
	Description      string `json:"description"`
	Address          string `json:"address"`
	TransactionHash  string `json:"transaction_hash"`
	ExternalID       string `json:"external_id"`
}

type TransactionType string

const (
	TypeTrade  TransactionType = "Trade"
	TypeReward TransactionType = "Reward"
)

type TradeType string

const (
	TradeBuy  TradeType = "Buy"
	TradeSell TradeType = "Sell"
)

// Transaction is a ledger entry after normalization. Created once from the
// raw record and never mutated.
type Transaction struct {
	Type             TransactionType `json:"type"`
	TradeType        TradeType       `json:"tradeType,omitempty"` // set iff Type == Trade
	Date             time.Time       `json:"date"`
	ReceivedAmount   float64         `json:"receivedAmount"`
	ReceivedCurrency string          `json:"receivedCurrency"`
	SentAmount       *float64        `json:"sentAmount"` // nil when absent
	SentCurrency     string          `json:"sentCurrency,omitempty"`
	FeeAmount        float64         `json:"feeAmount"`
	FeeCurrency      string          `json:"feeCurrency"`
	Description      string          `json:"description"`
	ExternalID       string          `json:"externalId"`
}

// SentAmountOrZero flattens the optional sent amount; a missing value
// counts as zero.
func (t Transaction) SentAmountOrZero() float64 {
	if t.SentAmount == nil {
		return 0
	}
	return *t.SentAmount
}
