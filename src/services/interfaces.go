package services

import (
	"errors"
	"io"

	"github.com/kodelio/cryptrack/src/models"
)

var (
	ErrParsingFailed = errors.New("ledger parsing failed")
	ErrImportFailed  = errors.New("ledger import failed")
)

// LedgerService owns the stored transaction ledger: CSV ingestion and
// year-partitioned retrieval of normalized transactions.
type LedgerService interface {
	ImportLedger(fileReader io.Reader) (int, error)
	ImportDataDir(dir string) error
	GetTransactionsByYear(year int) ([]models.Transaction, error)
	GetAllTransactions() ([]models.Transaction, error)
	DeleteAll() error
}

// PriceService exposes current EUR spot prices for the tracked assets.
// Fetch failures are absorbed here: callers always receive usable prices.
type PriceService interface {
	GetCurrentPrices() (models.CryptoPrices, error)
}
