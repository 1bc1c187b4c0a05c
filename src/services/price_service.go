package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kodelio/cryptrack/src/logger"
	"github.com/kodelio/cryptrack/src/models"
	"github.com/patrickmn/go-cache"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com"

const (
	cacheKeyCurrent   = "prices_current"
	cacheKeyLastKnown = "prices_last_known"
)

// fallbackPrices are used when no quote was ever fetched successfully.
var fallbackPrices = models.CryptoPrices{
	models.BTC: 95000,
	models.ETH: 3200,
	models.SOL: 200,
}

type coinGeckoSimplePrice struct {
	Bitcoin struct {
		EUR float64 `json:"eur"`
	} `json:"bitcoin"`
	Ethereum struct {
		EUR float64 `json:"eur"`
	} `json:"ethereum"`
	Solana struct {
		EUR float64 `json:"eur"`
	} `json:"solana"`
}

// priceServiceImpl fetches EUR spot prices from CoinGecko. Quotes are held
// in an explicit TTL cache owned by this instance; a copy of the last
// successful fetch is kept without expiry as the stale fallback.
type priceServiceImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	quoteCache *cache.Cache
}

// NewPriceService creates the CoinGecko-backed price service. ttl bounds how
// long a fetched quote is served before a refetch.
func NewPriceService(apiKey string, ttl time.Duration) PriceService {
	return &priceServiceImpl{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    defaultCoinGeckoBaseURL,
		apiKey:     apiKey,
		quoteCache: cache.New(ttl, 2*ttl),
	}
}

// GetCurrentPrices returns current EUR prices for the tracked assets. Fetch
// failures degrade to the last-known quotes, then to hardcoded defaults;
// callers never see an error from a failed fetch.
func (s *priceServiceImpl) GetCurrentPrices() (models.CryptoPrices, error) {
	if cached, found := s.quoteCache.Get(cacheKeyCurrent); found {
		logger.L.Debug("Price cache hit")
		return cached.(models.CryptoPrices), nil
	}

	prices, err := s.fetchFromCoinGecko()
	if err != nil {
		logger.L.Error("Error fetching prices from CoinGecko", "error", err)

		if stale, found := s.quoteCache.Get(cacheKeyLastKnown); found {
			logger.L.Warn("Serving stale prices after fetch failure")
			return stale.(models.CryptoPrices), nil
		}

		logger.L.Warn("Serving fallback prices, no quote ever fetched")
		return fallbackPrices, nil
	}

	s.quoteCache.Set(cacheKeyCurrent, prices, cache.DefaultExpiration)
	s.quoteCache.Set(cacheKeyLastKnown, prices, cache.NoExpiration)
	return prices, nil
}

func (s *priceServiceImpl) fetchFromCoinGecko() (models.CryptoPrices, error) {
	params := url.Values{}
	params.Set("ids", "bitcoin,ethereum,solana")
	params.Set("vs_currencies", "eur")
	if s.apiKey != "" {
		params.Set("x_cg_demo_api_key", s.apiKey)
	}

	reqURL := fmt.Sprintf("%s/api/v3/simple/price?%s", s.baseURL, params.Encode())
	resp, err := s.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to call CoinGecko simple price API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CoinGecko API returned non-OK status %d", resp.StatusCode)
	}

	var data coinGeckoSimplePrice
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode CoinGecko response: %w", err)
	}

	return models.CryptoPrices{
		models.BTC: data.Bitcoin.EUR,
		models.ETH: data.Ethereum.EUR,
		models.SOL: data.Solana.EUR,
	}, nil
}
