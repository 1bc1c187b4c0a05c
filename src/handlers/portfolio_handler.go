package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/kodelio/cryptrack/src/processors"
	"github.com/kodelio/cryptrack/src/services"
	"github.com/kodelio/cryptrack/src/utils"
)

type PortfolioHandler struct {
	ledgerService services.LedgerService
	priceService  services.PriceService
	calculator    *processors.TaxCalculator
	valuer        *processors.PortfolioValuer
}

func NewPortfolioHandler(ledgerService services.LedgerService, priceService services.PriceService, calculator *processors.TaxCalculator, valuer *processors.PortfolioValuer) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService: ledgerService,
		priceService:  priceService,
		calculator:    calculator,
		valuer:        valuer,
	}
}

type portfolioResponse struct {
	Positions           []models.PortfolioValue `json:"positions"`
	TotalValue          float64                 `json:"totalValue"`
	TotalCost           float64                 `json:"totalCost"`
	TotalUnrealizedGain float64                 `json:"totalUnrealizedGain"`
}

// HandleGetPortfolio values the cumulative holdings through the current
// year at live market prices.
func (h *PortfolioHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledgerService.GetAllTransactions()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transactions: %v", err), http.StatusInternalServerError)
		return
	}

	prices, err := h.priceService.GetCurrentPrices()
	if err != nil {
		// The price service degrades to stale or default quotes itself;
		// an error here is unexpected.
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving prices: %v", err), http.StatusInternalServerError)
		return
	}

	summary := h.calculator.CalculateCumulativeSummary(transactions, time.Now().Year())
	positions := h.valuer.Valuations(summary.Holdings, prices)

	response := portfolioResponse{
		Positions:           positions,
		TotalValue:          processors.TotalValue(positions),
		TotalCost:           processors.TotalCost(positions),
		TotalUnrealizedGain: processors.TotalUnrealizedGain(positions),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.Error("Error generating JSON response for portfolio", "error", err)
	}
}

func (h *PortfolioHandler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.GetCurrentPrices()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving prices: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(prices); err != nil {
		logger.L.Error("Error generating JSON response for prices", "error", err)
	}
}
