package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/services"
	"github.com/kodelio/cryptrack/src/utils"
)

type TransactionHandler struct {
	ledgerService services.LedgerService
}

func NewTransactionHandler(ledgerService services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// parseYearParam reads the {year} route parameter. Mirrors the ledger API
// contract: a missing or malformed year is a client error, a valid year
// without data simply yields an empty list.
func parseYearParam(r *http.Request) (int, error) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || len(yearStr) != 4 {
		return 0, fmt.Errorf("invalid year parameter '%s'", yearStr)
	}
	return year, nil
}

func (h *TransactionHandler) HandleGetTransactionsByYear(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.ledgerService.GetTransactionsByYear(year)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transactions for year %d: %v", year, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.L.Error("Error generating JSON response for transactions", "year", year, "error", err)
	}
}

func (h *TransactionHandler) HandleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerService.DeleteAll(); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error deleting transactions: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "all transactions deleted"})
}
