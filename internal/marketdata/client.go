package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// DefaultBaseURL is the CoinMarketCap-compatible listings endpoint.
const DefaultBaseURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/latest"

// ClientConfig configures a market-data client.
type ClientConfig struct {
	// APIKey is sent as the X-CMC_PRO_API_KEY header. Required.
	APIKey string
	// BaseURL overrides the listings endpoint, mainly for tests.
	BaseURL string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
	// MinInterval is the minimum spacing between requests; the free API
	// tier allows roughly one request per minute. Defaults to 60s.
	MinInterval time.Duration
}

// ListingsParams selects the slice of listings to fetch.
type ListingsParams struct {
	Start   int    `validate:"min=1"`
	Limit   int    `validate:"min=1,max=5000"`
	Convert string `validate:"required,alpha,uppercase"`
}

// DefaultListingsParams returns the first 15 listings quoted in USD.
func DefaultListingsParams() ListingsParams {
	return ListingsParams{Start: 1, Limit: 15, Convert: "USD"}
}

// Client fetches cryptocurrency listings and exposes them as datasets.
// Requests are paced by a rate limiter so bursts of calls cannot exceed the
// provider's quota; there is no retry logic, failed requests surface
// immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewClient creates a market-data client.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		validate:   validator.New(),
		logger:     logger,
	}, nil
}

// listingsResponse mirrors the provider's JSON envelope.
type listingsResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data []listing `json:"data"`
}

type listing struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	CmcRank     int64            `json:"cmc_rank"`
	LastUpdated string           `json:"last_updated"`
	Quote       map[string]quote `json:"quote"`
}

type quote struct {
	Price            *float64 `json:"price"`
	Volume24h        *float64 `json:"volume_24h"`
	PercentChange1h  *float64 `json:"percent_change_1h"`
	PercentChange24h *float64 `json:"percent_change_24h"`
	PercentChange7d  *float64 `json:"percent_change_7d"`
	MarketCap        *float64 `json:"market_cap"`
}

// listingColumns is the flattened dataset schema produced by Listings.
var listingColumns = []string{
	"id", "name", "symbol", "cmc_rank",
	"price", "volume_24h",
	"percent_change_1h", "percent_change_24h", "percent_change_7d",
	"market_cap", "last_updated", "captured_at",
}

// Listings fetches one page of listings and flattens it into a dataset. The
// call blocks on the rate limiter, honoring ctx for cancellation while
// waiting.
func (c *Client) Listings(ctx context.Context, params ListingsParams) (*dataset.Dataset, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid listings params: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accepts", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	q := url.Values{}
	q.Set("start", strconv.Itoa(params.Start))
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("convert", params.Convert)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings request failed: status %d", resp.StatusCode)
	}

	var payload listingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode listings response: %w", err)
	}
	if payload.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("provider error %d: %s",
			payload.Status.ErrorCode, payload.Status.ErrorMessage)
	}

	d, err := flattenListings(payload.Data, params.Convert, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched listings",
		slog.Int("count", d.NumRows()),
		slog.String("convert", params.Convert))
	return d, nil
}

func flattenListings(data []listing, convert string, capturedAt time.Time) (*dataset.Dataset, error) {
	rows := make([]dataset.Row, 0, len(data))
	stamp := dataset.Str(capturedAt.Format(time.RFC3339))

	for _, l := range data {
		row := dataset.Row{
			"id":           dataset.Int(l.ID),
			"name":         dataset.Str(l.Name),
			"symbol":       dataset.Str(l.Symbol),
			"cmc_rank":     dataset.Int(l.CmcRank),
			"last_updated": dataset.Str(l.LastUpdated),
			"captured_at":  stamp,
		}

		q, ok := l.Quote[convert]
		if !ok {
			row["price"] = dataset.Null()
			row["volume_24h"] = dataset.Null()
			row["percent_change_1h"] = dataset.Null()
			row["percent_change_24h"] = dataset.Null()
			row["percent_change_7d"] = dataset.Null()
			row["market_cap"] = dataset.Null()
		} else {
			row["price"] = floatOrNull(q.Price)
			row["volume_24h"] = floatOrNull(q.Volume24h)
			row["percent_change_1h"] = floatOrNull(q.PercentChange1h)
			row["percent_change_24h"] = floatOrNull(q.PercentChange24h)
			row["percent_change_7d"] = floatOrNull(q.PercentChange7d)
			row["market_cap"] = floatOrNull(q.MarketCap)
		}
		rows = append(rows, row)
	}

	return dataset.New(listingColumns, rows)
}

func floatOrNull(f *float64) dataset.Value {
	if f == nil {
		return dataset.Null()
	}
	return dataset.Float(*f)
}
