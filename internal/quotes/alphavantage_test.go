package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaVantageTest(t *testing.T, handler http.HandlerFunc) *AlphaVantage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	av := NewAlphaVantage("test-key", srv.Client())
	av.baseURL = srv.URL
	return av
}

func TestAlphaVantageQuote(t *testing.T) {
	av := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{
			"Global Quote": {
				"01. symbol": "AAPL",
				"05. price": "150.2500",
				"06. volume": "51234567",
				"08. previous close": "148.0000",
				"09. change": "2.2500",
				"10. change percent": "1.5203%"
			}
		}`)
	})

	q, err := av.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("150.25")), "price %s", q.Price)
	assert.True(t, q.Change.Equal(decimal.RequireFromString("2.25")), "change %s", q.Change)
	assert.True(t, q.ChangePercent.Equal(decimal.RequireFromString("1.5203")), "pct %s", q.ChangePercent)
	assert.True(t, q.PrevClose.Equal(decimal.RequireFromString("148")), "prev close %s", q.PrevClose)
	assert.EqualValues(t, 51234567, q.Volume)
}

func TestAlphaVantageRateLimitNote(t *testing.T) {
	av := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	})

	_, err := av.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAlphaVantageErrorMessage(t *testing.T) {
	av := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
	})

	_, err := av.Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAlphaVantageMissingPrice(t *testing.T) {
	av := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	})

	_, err := av.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAlphaVantageServerError(t *testing.T) {
	av := newAlphaVantageTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := av.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnavailable)
}
