package database

import (
	"database/sql"
	stdlog "log"

	"github.com/kodelio/cryptrack/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the sqlite database and ensures the schema. Ledger rows are
// stored with their original string values; parsing stays in the normalizer
// so the stored ledger remains the single source of truth.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		date TEXT NOT NULL,
		timezone TEXT,
		received_amount TEXT,
		received_currency TEXT,
		sent_amount TEXT,
		sent_currency TEXT,
		fee_amount TEXT,
		fee_currency TEXT,
		description TEXT,
		address TEXT,
		transaction_hash TEXT,
		external_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(external_id)
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_year ON ledger_entries(year);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
