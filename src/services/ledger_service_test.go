package services

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/kodelio/cryptrack/src/database"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/parsers"
)

const testLedgerCSV = `type,date,timezone,received_amount,received_currency,sent_amount,sent_currency,fee_amount,fee_currency,description,address,transaction_hash,external_id
Trade,2024-01-15,UTC,1.0,BTC,40000,EUR,10,EUR,Buy,,hash1,ext-1
Trade,2024-06-20,UTC,50000,EUR,1.0,BTC,15,EUR,Sell,,hash2,ext-2
Reward,2025-02-01,UTC,0.05,SOL,,,,,Staking reward,,hash3,ext-3
`

func newTestLedgerService(t *testing.T) LedgerService {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { database.DB.Close() })
	return NewLedgerService(parsers.NewLedgerCSVParser(), parsers.NewTransactionNormalizer())
}

func TestLedgerService_ImportAndFetchByYear(t *testing.T) {
	s := newTestLedgerService(t)

	inserted, err := s.ImportLedger(strings.NewReader(testLedgerCSV))
	assert.NoError(t, err)
	assert.Equal(t, 3, inserted)

	txs, err := s.GetTransactionsByYear(2024)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txs))
	assert.Equal(t, models.TypeTrade, txs[0].Type)
	assert.Equal(t, models.TradeBuy, txs[0].TradeType)
	assert.Equal(t, "BTC", txs[0].ReceivedCurrency)
	assert.Equal(t, models.TradeSell, txs[1].TradeType)

	txs, err = s.GetTransactionsByYear(2025)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(txs))
	assert.Equal(t, models.TypeReward, txs[0].Type)
}

func TestLedgerService_ReimportSkipsDuplicates(t *testing.T) {
	s := newTestLedgerService(t)

	inserted, err := s.ImportLedger(strings.NewReader(testLedgerCSV))
	assert.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = s.ImportLedger(strings.NewReader(testLedgerCSV))
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)

	all, err := s.GetAllTransactions()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(all))
}

func TestLedgerService_BlankExternalIDGetsGenerated(t *testing.T) {
	s := newTestLedgerService(t)

	csv := `type,date,timezone,received_amount,received_currency,sent_amount,sent_currency,fee_amount,fee_currency,description,address,transaction_hash,external_id
Trade,2024-01-15,UTC,1.0,BTC,40000,EUR,10,EUR,Buy,,hash1,
Trade,2024-01-16,UTC,0.5,BTC,20000,EUR,5,EUR,Buy,,hash2,
`
	// Blank ids do not collide with each other on the dedup key.
	inserted, err := s.ImportLedger(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestLedgerService_MalformedCSVIsParsingError(t *testing.T) {
	s := newTestLedgerService(t)

	_, err := s.ImportLedger(strings.NewReader("type,date\nTrade,\"unterminated\n"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsingFailed))
}

func TestLedgerService_EmptyYearReturnsEmptySlice(t *testing.T) {
	s := newTestLedgerService(t)

	txs, err := s.GetTransactionsByYear(1999)
	assert.NoError(t, err)
	assert.True(t, txs != nil)
	assert.Equal(t, 0, len(txs))
}

func TestLedgerService_DeleteAll(t *testing.T) {
	s := newTestLedgerService(t)

	_, err := s.ImportLedger(strings.NewReader(testLedgerCSV))
	assert.NoError(t, err)

	assert.NoError(t, s.DeleteAll())

	all, err := s.GetAllTransactions()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(all))
}
