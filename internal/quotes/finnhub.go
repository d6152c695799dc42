package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/badrinagarjun/marketpulse/internal/metrics"
	"github.com/shopspring/decimal"
)

const finnhubURL = "https://finnhub.io/api/v1"

type Finnhub struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFinnhub(apiKey string, client *http.Client) *Finnhub {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Finnhub{apiKey: apiKey, baseURL: finnhubURL, client: client}
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

func (f *Finnhub) Quote(ctx context.Context, symbol string) (Quote, error) {
	start := time.Now()
	q, err := f.fetch(ctx, symbol)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.QuoteFetchDuration.WithLabelValues("finnhub", outcome).Observe(time.Since(start).Seconds())
	return q, err
}

func (f *Finnhub) fetch(ctx context.Context, symbol string) (Quote, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		f.baseURL, url.QueryEscape(symbol), url.QueryEscape(f.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	// Finnhub returns all zeroes for symbols it does not know.
	if body.Current <= 0 {
		return Quote{}, fmt.Errorf("%w: no valid price for %s", ErrUnavailable, symbol)
	}

	asOf := time.Now()
	if body.Timestamp > 0 {
		asOf = time.Unix(body.Timestamp, 0)
	}
	return Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(body.Current),
		Change:        decimal.NewFromFloat(body.Change),
		ChangePercent: decimal.NewFromFloat(body.ChangePercent),
		PrevClose:     decimal.NewFromFloat(body.PrevClose),
		AsOf:          asOf,
	}, nil
}
