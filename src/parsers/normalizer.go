package parsers

import (
	"strconv"
	"strings"

	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/utils"
)

// TransactionNormalizer converts raw ledger entries into typed transactions.
//
// Parsing is deliberately lenient: unparseable amounts degrade to zero and an
// absent or unparseable sent pair becomes nil/empty. A malformed field never
// fails the whole ingestion. The trade direction is read from the description
// field, which the ledger format uses to carry the literal "Buy" or "Sell".
type TransactionNormalizer struct{}

func NewTransactionNormalizer() *TransactionNormalizer {
	return &TransactionNormalizer{}
}

func (n *TransactionNormalizer) Normalize(raws []models.RawLedgerEntry) []models.Transaction {
	txs := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		txs = append(txs, n.normalizeOne(raw))
	}
	return txs
}

func (n *TransactionNormalizer) normalizeOne(raw models.RawLedgerEntry) models.Transaction {
	txType := models.TransactionType(strings.TrimSpace(raw.Type))

	var tradeType models.TradeType
	if txType == models.TypeTrade {
		tradeType = models.TradeType(strings.TrimSpace(raw.Description))
	}

	date, ok := utils.ParseLedgerDate(raw.Date)
	if !ok && raw.Date != "" && logger.L != nil {
		logger.L.Debug("Unparseable ledger date, keeping zero time", "date", raw.Date, "externalId", raw.ExternalID)
	}

	var sentAmount *float64
	if strings.TrimSpace(raw.SentAmount) != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw.SentAmount), 64); err == nil {
			sentAmount = &v
		}
	}

	sentCurrency := ""
	if strings.TrimSpace(raw.SentCurrency) != "" {
		sentCurrency = strings.TrimSpace(raw.SentCurrency)
	}

	return models.Transaction{
		Type:             txType,
		TradeType:        tradeType,
		Date:             date,
		ReceivedAmount:   parseAmount(raw.ReceivedAmount),
		ReceivedCurrency: strings.TrimSpace(raw.ReceivedCurrency),
		SentAmount:       sentAmount,
		SentCurrency:     sentCurrency,
		FeeAmount:        parseAmount(raw.FeeAmount),
		FeeCurrency:      strings.TrimSpace(raw.FeeCurrency),
		Description:      raw.Description,
		ExternalID:       raw.ExternalID,
	}
}

// parseAmount parses a non-negative ledger amount, defaulting to zero on any
// malformed input.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
