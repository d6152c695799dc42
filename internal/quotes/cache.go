package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cached wraps a Provider with a short-TTL redis cache so bursts of orders
// and dashboard refreshes do not burn through the upstream rate limit.
// Cache errors fall through to the upstream provider.
type Cached struct {
	upstream Provider
	client   *redis.Client
	ttl      time.Duration
}

func NewCached(upstream Provider, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{upstream: upstream, client: client, ttl: ttl}
}

func quoteKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

func (c *Cached) Quote(ctx context.Context, symbol string) (Quote, error) {
	key := quoteKey(symbol)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var q Quote
		if err := json.Unmarshal(data, &q); err == nil {
			return q, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("quote cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}

	q, err := c.upstream.Quote(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	if data, err := json.Marshal(q); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Log.Warn("quote cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return q, nil
}
