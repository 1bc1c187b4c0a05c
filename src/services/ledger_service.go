package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/kodelio/cryptrack/src/database"
	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/parsers"
	"github.com/kodelio/cryptrack/src/utils"
)

type ledgerServiceImpl struct {
	csvParser  parsers.CSVParser
	normalizer parsers.Normalizer
}

func NewLedgerService(csvParser parsers.CSVParser, normalizer parsers.Normalizer) LedgerService {
	return &ledgerServiceImpl{
		csvParser:  csvParser,
		normalizer: normalizer,
	}
}

// ImportLedger parses a ledger CSV and stores its raw rows. Rows whose
// external_id already exists are skipped silently; rows without one get a
// generated id so the dedup key is never empty. Returns the number of rows
// actually inserted.
func (s *ledgerServiceImpl) ImportLedger(fileReader io.Reader) (int, error) {
	entries, err := s.csvParser.Parse(fileReader)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: error beginning database transaction: %v", ErrImportFailed, err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO ledger_entries
		(type, date, timezone, received_amount, received_currency, sent_amount, sent_currency,
		 fee_amount, fee_currency, description, address, transaction_hash, external_id, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: error preparing insert statement: %v", ErrImportFailed, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		externalID := entry.ExternalID
		if strings.TrimSpace(externalID) == "" {
			externalID = uuid.NewString()
		}

		// An unparseable date lands in year 0 rather than failing the
		// import; the lenient normalizer applies the same policy on read.
		year := 0
		if date, ok := utils.ParseLedgerDate(entry.Date); ok {
			year = date.Year()
		}

		_, err := stmt.Exec(entry.Type, entry.Date, entry.Timezone,
			entry.ReceivedAmount, entry.ReceivedCurrency, entry.SentAmount, entry.SentCurrency,
			entry.FeeAmount, entry.FeeCurrency, entry.Description, entry.Address,
			entry.TransactionHash, externalID, year)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate ledger entry on import", "externalId", externalID)
				continue
			}
			return 0, fmt.Errorf("%w: error inserting ledger entry (externalId: %s): %v", ErrImportFailed, externalID, err)
		}
		inserted++
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: error committing ledger entries: %v", ErrImportFailed, err)
	}

	logger.L.Info("Ledger import complete", "parsedRows", len(entries), "insertedRows", inserted)
	return inserted, nil
}

var yearFileRe = regexp.MustCompile(`^\d{4}\.csv$`)

// ImportDataDir bootstraps the store from per-year ledger files
// (<year>.csv) in the given directory. A missing directory is not an error.
func (s *ledgerServiceImpl) ImportDataDir(dir string) error {
	fileEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.L.Info("Data directory not found, skipping ledger bootstrap", "dir", dir)
			return nil
		}
		return fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	for _, fileEntry := range fileEntries {
		if fileEntry.IsDir() || !yearFileRe.MatchString(fileEntry.Name()) {
			continue
		}
		path := filepath.Join(dir, fileEntry.Name())

		f, err := os.Open(path)
		if err != nil {
			logger.L.Error("Failed to open ledger file, skipping", "path", path, "error", err)
			continue
		}
		inserted, err := s.ImportLedger(f)
		f.Close()
		if err != nil {
			logger.L.Error("Failed to import ledger file, skipping", "path", path, "error", err)
			continue
		}
		logger.L.Info("Bootstrapped ledger file", "path", path, "insertedRows", inserted)
	}

	return nil
}

func (s *ledgerServiceImpl) GetTransactionsByYear(year int) ([]models.Transaction, error) {
	return s.queryTransactions(`SELECT type, date, timezone, received_amount, received_currency,
		sent_amount, sent_currency, fee_amount, fee_currency, description, address,
		transaction_hash, external_id
		FROM ledger_entries WHERE year = ? ORDER BY date ASC, id ASC`, year)
}

func (s *ledgerServiceImpl) GetAllTransactions() ([]models.Transaction, error) {
	return s.queryTransactions(`SELECT type, date, timezone, received_amount, received_currency,
		sent_amount, sent_currency, fee_amount, fee_currency, description, address,
		transaction_hash, external_id
		FROM ledger_entries ORDER BY date ASC, id ASC`)
}

func (s *ledgerServiceImpl) queryTransactions(query string, args ...any) ([]models.Transaction, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RawLedgerEntry
	for rows.Next() {
		var e models.RawLedgerEntry
		scanErr := rows.Scan(&e.Type, &e.Date, &e.Timezone, &e.ReceivedAmount, &e.ReceivedCurrency,
			&e.SentAmount, &e.SentCurrency, &e.FeeAmount, &e.FeeCurrency, &e.Description,
			&e.Address, &e.TransactionHash, &e.ExternalID)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning ledger entry row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger entry rows: %w", err)
	}

	txs := s.normalizer.Normalize(entries)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (s *ledgerServiceImpl) DeleteAll() error {
	_, err := database.DB.Exec(`DELETE FROM ledger_entries`)
	if err != nil {
		return fmt.Errorf("error deleting ledger entries: %w", err)
	}
	logger.L.Info("Deleted all ledger entries")
	return nil
}
