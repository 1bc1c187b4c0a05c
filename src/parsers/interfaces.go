package parsers

import (
	"io"

	"github.com/kodelio/cryptrack/src/models"
)

// CSVParser defines the interface for parsing ledger CSV files.
type CSVParser interface {
	Parse(file io.Reader) ([]models.RawLedgerEntry, error)
}

// Normalizer defines the interface for converting raw ledger entries into
// typed transactions.
type Normalizer interface {
	Normalize(raws []models.RawLedgerEntry) []models.Transaction
}
