package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/processors"
	"github.com/kodelio/cryptrack/src/services"
	"github.com/kodelio/cryptrack/src/utils"
)

type ExportHandler struct {
	ledgerService services.LedgerService
	builder       *processors.Form2086Builder
}

func NewExportHandler(ledgerService services.LedgerService, builder *processors.Form2086Builder) *ExportHandler {
	return &ExportHandler{
		ledgerService: ledgerService,
		builder:       builder,
	}
}

// HandleGetForm2086 serves the Form 2086 disposal schedule for one year,
// as JSON by default or as the downloadable CSV with ?format=csv.
func (h *ExportHandler) HandleGetForm2086(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.ledgerService.GetAllTransactions()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transactions: %v", err), http.StatusInternalServerError)
		return
	}

	report := h.builder.Build(transactions, year)

	if r.URL.Query().Get("format") == "csv" {
		csvDoc := h.builder.BuildCSV(report)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=formulaire_2086_%d.csv", year))
		if _, err := w.Write([]byte(csvDoc)); err != nil {
			logger.L.Error("Error writing CSV response for Form 2086", "year", year, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.L.Error("Error generating JSON response for Form 2086", "year", year, "error", err)
	}
}
