package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kodelio/cryptrack/src/config"
	"github.com/kodelio/cryptrack/src/database"
	"github.com/kodelio/cryptrack/src/handlers"
	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/parsers"
	"github.com/kodelio/cryptrack/src/processors"
	"github.com/kodelio/cryptrack/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == config.Cfg.CORSAllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Cryptrack backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services and handlers...")
	csvParser := parsers.NewLedgerCSVParser()
	normalizer := parsers.NewTransactionNormalizer()
	ledgerService := services.NewLedgerService(csvParser, normalizer)
	priceService := services.NewPriceService(config.Cfg.CoinGeckoAPIKey, config.Cfg.PriceCacheTTL)

	if err := ledgerService.ImportDataDir(config.Cfg.DataDir); err != nil {
		logger.L.Error("Failed to bootstrap ledger from data directory", "dir", config.Cfg.DataDir, "error", err)
	}

	engine := processors.NewLotEngine()
	calculator := processors.NewTaxCalculator(engine)
	form2086Builder := processors.NewForm2086Builder(engine)
	valuer := processors.NewPortfolioValuer()

	txHandler := handlers.NewTransactionHandler(ledgerService)
	uploadHandler := handlers.NewUploadHandler(ledgerService)
	taxHandler := handlers.NewTaxHandler(ledgerService, calculator)
	exportHandler := handlers.NewExportHandler(ledgerService, form2086Builder)
	portfolioHandler := handlers.NewPortfolioHandler(ledgerService, priceService, calculator, valuer)

	logger.L.Info("Configuring routes...")
	router := chi.NewRouter()

	router.Route("/api", func(r chi.Router) {
		r.Get("/transactions/{year}", txHandler.HandleGetTransactionsByYear)
		r.Delete("/transactions/all", txHandler.HandleDeleteAllTransactions)
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/tax/summary/{year}", taxHandler.HandleGetTaxSummary)
		r.Post("/tax/simulate", taxHandler.HandleSimulateSale)
		r.Get("/form2086/{year}", exportHandler.HandleGetForm2086)
		r.Get("/portfolio", portfolioHandler.HandleGetPortfolio)
		r.Get("/prices", portfolioHandler.HandleGetPrices)
	})

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Cryptrack backend is running"})
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(router))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
