package utils

import (
	"strings"
	"time"
)

// LedgerDateFormat is the date layout used by ledger exports.
const LedgerDateFormat = "2006-01-02"

// DisplayDateFormat is the DD/MM/YYYY layout used on the disposal schedule.
const DisplayDateFormat = "02/01/2006"

// ParseLedgerDate parses a ledger date string. Full RFC3339 timestamps are
// accepted too; only the date part is significant. Returns zero time and
// false when the value cannot be parsed.
func ParseLedgerDate(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if t, err := time.Parse(LedgerDateFormat, dateStr); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, true
	}
	// Timestamps without offset, e.g. "2024-06-01 14:30:00".
	if len(dateStr) >= len(LedgerDateFormat) {
		if t, err := time.Parse(LedgerDateFormat, dateStr[:len(LedgerDateFormat)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
