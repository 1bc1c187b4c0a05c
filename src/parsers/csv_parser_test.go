package parsers

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const sampleLedgerCSV = `type,date,timezone,received_amount,received_currency,sent_amount,sent_currency,fee_amount,fee_currency,description,address,transaction_hash,external_id
Trade,2024-01-01,UTC,1,BTC,30000,EUR,10,EUR,Buy,,hash1,ext-1
Trade,2024-06-01,UTC,40000,EUR,1,BTC,100,EUR,Sell,,hash2,ext-2
Reward,2024-07-01,UTC,0.05,SOL,,,,,Staking reward,,hash3,ext-3
`

func TestLedgerCSVParser_Parse(t *testing.T) {
	p := NewLedgerCSVParser()

	entries, err := p.Parse(strings.NewReader(sampleLedgerCSV))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(entries))

	assert.Equal(t, "Trade", entries[0].Type)
	assert.Equal(t, "30000", entries[0].SentAmount)
	assert.Equal(t, "Buy", entries[0].Description)
	assert.Equal(t, "ext-1", entries[0].ExternalID)

	assert.Equal(t, "Reward", entries[2].Type)
	assert.Equal(t, "", entries[2].SentAmount)
	assert.Equal(t, "Staking reward", entries[2].Description)
}

func TestLedgerCSVParser_ColumnsMatchedByHeaderName(t *testing.T) {
	p := NewLedgerCSVParser()

	// Reordered and partial header still maps correctly.
	csv := "date,type,received_currency,received_amount\n2024-01-01,Reward,ETH,0.5\n"
	entries, err := p.Parse(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "Reward", entries[0].Type)
	assert.Equal(t, "0.5", entries[0].ReceivedAmount)
	assert.Equal(t, "ETH", entries[0].ReceivedCurrency)
	assert.Equal(t, "", entries[0].ExternalID)
}

func TestLedgerCSVParser_QuotedFields(t *testing.T) {
	p := NewLedgerCSVParser()

	csv := "type,date,description,external_id\nTrade,2024-01-01,\"Buy, with comma and \"\"quote\"\"\",ext-9\n"
	entries, err := p.Parse(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, `Buy, with comma and "quote"`, entries[0].Description)
}

func TestLedgerCSVParser_RaggedRowsTolerated(t *testing.T) {
	p := NewLedgerCSVParser()

	csv := "type,date,received_amount,received_currency\nReward,2024-01-01\n"
	entries, err := p.Parse(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "", entries[0].ReceivedAmount)
}

func TestLedgerCSVParser_MissingHeader(t *testing.T) {
	p := NewLedgerCSVParser()

	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
}
