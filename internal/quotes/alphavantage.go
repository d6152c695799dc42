package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/badrinagarjun/marketpulse/internal/metrics"
	"github.com/shopspring/decimal"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAlphaVantage(apiKey string, client *http.Client) *AlphaVantage {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &AlphaVantage{apiKey: apiKey, baseURL: alphaVantageURL, client: client}
}

// globalQuote mirrors the GLOBAL_QUOTE response object. Alpha Vantage keys
// every field with a numeric prefix; values are all strings.
type globalQuote struct {
	Quote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PrevClose     string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	// Note is set on rate-limit responses, ErrorMessage on bad requests.
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (Quote, error) {
	start := time.Now()
	q, err := a.fetch(ctx, symbol)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.QuoteFetchDuration.WithLabelValues("alphavantage", outcome).Observe(time.Since(start).Seconds())
	return q, err
}

func (a *AlphaVantage) fetch(ctx context.Context, symbol string) (Quote, error) {
	u := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), url.QueryEscape(a.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body globalQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if body.Note != "" || body.ErrorMessage != "" {
		return Quote{}, fmt.Errorf("%w: %s%s", ErrUnavailable, body.Note, body.ErrorMessage)
	}

	price, err := decimal.NewFromString(body.Quote.Price)
	if err != nil || !price.IsPositive() {
		return Quote{}, fmt.Errorf("%w: no valid price for %s", ErrUnavailable, symbol)
	}

	q := Quote{
		Symbol: body.Quote.Symbol,
		Price:  price,
		AsOf:   time.Now(),
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if v, err := decimal.NewFromString(body.Quote.Change); err == nil {
		q.Change = v
	}
	if v, err := decimal.NewFromString(strings.TrimSuffix(body.Quote.ChangePercent, "%")); err == nil {
		q.ChangePercent = v
	}
	if v, err := decimal.NewFromString(body.Quote.PrevClose); err == nil {
		q.PrevClose = v
	}
	if v, err := strconv.ParseInt(body.Quote.Volume, 10, 64); err == nil {
		q.Volume = v
	}
	return q, nil
}
