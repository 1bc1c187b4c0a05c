package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kodelio/cryptrack/src/models"
)

// LedgerCSVParser parses a crypto ledger CSV export into raw entries.
// Columns are matched by header name, so column order and extra columns in
// the export do not matter.
type LedgerCSVParser struct{}

func NewLedgerCSVParser() *LedgerCSVParser {
	return &LedgerCSVParser{}
}

func (p *LedgerCSVParser) Parse(file io.Reader) ([]models.RawLedgerEntry, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(strings.ToLower(name))] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read all CSV records: %w", err)
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	entries := make([]models.RawLedgerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, models.RawLedgerEntry{
			Type:             field(record, "type"),
			Date:             field(record, "date"),
			Timezone:         field(record, "timezone"),
			ReceivedAmount:   field(record, "received_amount"),
			ReceivedCurrency: field(record, "received_currency"),
			SentAmount:       field(record, "sent_amount"),
			SentCurrency:     field(record, "sent_currency"),
			FeeAmount:        field(record, "fee_amount"),
			FeeCurrency:      field(record, "fee_currency"),
			Description:      field(record, "description"),
			Address:          field(record, "address"),
			TransactionHash:  field(record, "transaction_hash"),
			ExternalID:       field(record, "external_id"),
		})
	}

	return entries, nil
}
