package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// CachedRates fronts a RateSource with Redis. Rates are relatively
// stable; stale reads are acceptable for quoting.
type CachedRates struct {
	source RateSource
	rdb    *redis.Client
}

func NewCachedRates(source RateSource, rdb *redis.Client) *CachedRates {
	return &CachedRates{source: source, rdb: rdb}
}

func (c *CachedRates) GetRate(ctx context.Context, base, quote domain.Currency) (*domain.ExchangeRate, error) {
	key := fmt.Sprintf("rate:%s:%s", base, quote)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached domain.ExchangeRate
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			return &cached, nil
		}
	}

	rate, err := c.source.GetRate(ctx, base, quote)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rate); err == nil {
		_ = c.rdb.Set(ctx, key, data, cacheTTL).Err()
	}
	return rate, nil
}

// Invalidate drops the cached entry after an admin rate change.
func (c *CachedRates) Invalidate(ctx context.Context, base, quote domain.Currency) {
	_ = c.rdb.Del(ctx, fmt.Sprintf("rate:%s:%s", base, quote)).Err()
}

// CachedLimits fronts a LimitSource with Redis.
type CachedLimits struct {
	source LimitSource
	rdb    *redis.Client
}

func NewCachedLimits(source LimitSource, rdb *redis.Client) *CachedLimits {
	return &CachedLimits{source: source, rdb: rdb}
}

func (c *CachedLimits) GetLimit(ctx context.Context, fromMethod, toMethod string) (*domain.ExchangeLimit, error) {
	key := fmt.Sprintf("limit:%s:%s", fromMethod, toMethod)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached domain.ExchangeLimit
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			return &cached, nil
		}
	}

	limit, err := c.source.GetLimit(ctx, fromMethod, toMethod)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(limit); err == nil {
		_ = c.rdb.Set(ctx, key, data, cacheTTL).Err()
	}
	return limit, nil
}

func (c *CachedLimits) Invalidate(ctx context.Context, fromMethod, toMethod string) {
	_ = c.rdb.Del(ctx, fmt.Sprintf("limit:%s:%s", fromMethod, toMethod)).Err()
}
