// Package quotes fetches current market prices from external providers.
// Providers are opaque, rate-limited third parties; every failure surfaces
// as ErrUnavailable so callers can treat "no price" uniformly.
package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnavailable = errors.New("quote unavailable")

type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	PrevClose     decimal.Decimal `json:"prevClose"`
	Volume        int64           `json:"volume"`
	AsOf          time.Time       `json:"asOf"`
}

type Provider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}
