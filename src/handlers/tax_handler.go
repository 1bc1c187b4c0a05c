package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/processors"
	"github.com/kodelio/cryptrack/src/services"
	"github.com/kodelio/cryptrack/src/utils"
)

type TaxHandler struct {
	ledgerService services.LedgerService
	calculator    *processors.TaxCalculator
}

func NewTaxHandler(ledgerService services.LedgerService, calculator *processors.TaxCalculator) *TaxHandler {
	return &TaxHandler{
		ledgerService: ledgerService,
		calculator:    calculator,
	}
}

// HandleGetTaxSummary serves the tax summary for one year. The default is
// the year-scoped computation; ?cumulative=true switches to the cumulative
// pass, which is the authoritative one for portfolios with history.
func (h *TaxHandler) HandleGetTaxSummary(w http.ResponseWriter, r *http.Request) {
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

	var summary models.TaxSummary
	if r.URL.Query().Get("cumulative") == "true" {
		summary = h.calculator.CalculateCumulativeSummary(transactions, year)
	} else {
		summary = h.calculator.CalculateTaxSummary(transactions, year)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		logger.L.Error("Error generating JSON response for tax summary", "year", year, "error", err)
	}
}

type simulateSaleRequest struct {
	Crypto   string  `json:"crypto"`
	Amount   float64 `json:"amount"`
	PriceEUR float64 `json:"priceEUR"`
	Year     int     `json:"year"`
}

// HandleSimulateSale projects a hypothetical disposal against the cumulative
// holdings through the given year, without touching stored state.
func (h *TaxHandler) HandleSimulateSale(w http.ResponseWriter, r *http.Request) {
	var req simulateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !models.IsTracked(req.Crypto) {
		utils.SendJSONError(w, fmt.Sprintf("unsupported asset '%s'", req.Crypto), http.StatusBadRequest)
		return
	}

	transactions, err := h.ledgerService.GetAllTransactions()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transactions: %v", err), http.StatusInternalServerError)
		return
	}

	summary := h.calculator.CalculateCumulativeSummary(transactions, req.Year)
	simulation := h.calculator.SimulateSale(summary.Holdings, models.Asset(req.Crypto), req.Amount, req.PriceEUR, req.Year)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(simulation); err != nil {
		logger.L.Error("Error generating JSON response for sale simulation", "error", err)
	}
}
