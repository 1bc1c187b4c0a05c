package processors

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/utils"
)

// Form2086Builder derives the Form 2086 disposal schedule for one tax year.
// It re-runs the full cumulative accounting pass up through the end of the
// year so that acquisitions and rewards from any earlier year feed the cost
// basis, and emits one record per Sell dated within the target year.
type Form2086Builder struct {
	engine *LotEngine
}

func NewForm2086Builder(engine *LotEngine) *Form2086Builder {
	return &Form2086Builder{engine: engine}
}

func (b *Form2086Builder) Build(transactions []models.Transaction, year int) models.Form2086Report {
	cutoff := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var scoped []models.Transaction
	for _, tx := range transactions {
		if !tx.Date.After(cutoff) {
			scoped = append(scoped, tx)
		}
	}

	report := models.Form2086Report{Year: year, Disposals: []models.DisposalRecord{}}
	seq := 0

	inTargetYear := func(tx models.Transaction) bool {
		return tx.Date.Year() == year
	}

	b.engine.Run(scoped, inTargetYear, func(d Disposal) {
		seq++
		record := buildDisposalRecord(seq, d)
		report.Disposals = append(report.Disposals, record)

		if record.Line223 > 0 {
			report.Line3VK += record.Line223
		} else {
			report.Line3VL += record.Line222
		}
	})

	return report
}

// buildDisposalRecord computes the statutory lines in their dependency
// order. Acquisition fees (214) and soulte (220) are always zero here: fees
// already sit inside the weighted-average basis and exchanges in kind are
// out of scope.
func buildDisposalRecord(seq int, d Disposal) models.DisposalRecord {
	date := d.Tx.Date.Format(utils.DisplayDateFormat)

	line212 := d.ProceedsEUR
	line213 := d.AcquisitionCost
	line214 := 0.0
	line215 := line213 + line214
	line216 := d.FeeEUR
	line217 := line212 - line216
	line218 := line215
	line220 := 0.0
	line221 := line217 - line218
	line222 := math.Max(0, -line221)
	line223 := math.Max(0, line221)

	return models.DisposalRecord{
		Seq:      seq,
		Date:     date,
		Asset:    d.Asset,
		Quantity: d.Quantity,
		Line211:  date,
		Line212:  line212,
		Line213:  line213,
		Line214:  line214,
		Line215:  line215,
		Line216:  line216,
		Line217:  line217,
		Line218:  line218,
		Line220:  line220,
		Line221:  line221,
		Line222:  line222,
		Line223:  line223,
	}
}

// csvHeader holds the 16 column labels of the exported schedule.
var csvHeader = []string{
	"Numéro cession", "Date", "Crypto", "Quantité",
	"211 - Date", "212 - Prix cession", "213 - Prix acquisition",
	"214 - Frais acquisition", "215 - Total acquisition", "216 - Frais cession",
	"217 - Cession nette", "218 - Acquisition totale", "220 - Soulte",
	"221 - Plus-value brute", "222 - Moins-value", "223 - Plus-value nette",
}

// BuildCSV serializes a report to the downloadable CSV document: header row,
// one row per disposal, a blank separator row, then a TOTAL row carrying the
// 3VK/3VL sums in the last two columns.
func (b *Form2086Builder) BuildCSV(report models.Form2086Report) string {
	lines := []string{strings.Join(csvHeader, ",")}

	for _, c := range report.Disposals {
		lines = append(lines, strings.Join([]string{
			EscapeCSVValue(strconv.Itoa(c.Seq)),
			EscapeCSVValue(c.Date),
			EscapeCSVValue(string(c.Asset)),
			EscapeCSVValue(formatQuantity(c.Quantity)),
			EscapeCSVValue(c.Line211),
			EscapeCSVValue(formatMoney(c.Line212)),
			EscapeCSVValue(formatMoney(c.Line213)),
			EscapeCSVValue(formatMoney(c.Line214)),
			EscapeCSVValue(formatMoney(c.Line215)),
			EscapeCSVValue(formatMoney(c.Line216)),
			EscapeCSVValue(formatMoney(c.Line217)),
			EscapeCSVValue(formatMoney(c.Line218)),
			EscapeCSVValue(formatMoney(c.Line220)),
			EscapeCSVValue(formatMoney(c.Line221)),
			EscapeCSVValue(formatMoney(c.Line222)),
			EscapeCSVValue(formatMoney(c.Line223)),
		}, ","))
	}

	lines = append(lines, strings.Repeat(",", len(csvHeader)-1))
	lines = append(lines, strings.Join([]string{
		"", "", "", "", "", "", "", "", "", "", "", "",
		"TOTAL",
		EscapeCSVValue(formatMoney(report.Line3VK)),
		EscapeCSVValue(formatMoney(report.Line3VL)),
	}, ","))

	return strings.Join(lines, "\n")
}

// EscapeCSVValue guards against formula injection (a leading =, +, - or @
// gets a quote prefix) and applies RFC 4180 quoting for fields containing
// commas, quotes or newlines.
func EscapeCSVValue(value string) string {
	if value == "" {
		return ""
	}

	switch value[0] {
	case '=', '+', '-', '@':
		value = "'" + value
	}

	if strings.ContainsAny(value, "\",\n\r") {
		value = "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
	}

	return value
}

// Quantities render to 8 decimal places, monetary values to 2.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
