package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/healthpredict/healthpredict-backend/internal/observability"
)

// PredictionCache keeps the latest-predictions summary in redis so the
// history view does not hit the store on every dashboard load. All methods
// are best-effort: cache errors degrade to misses, never to request failures.
// A nil client disables caching entirely.
type PredictionCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewPredictionCache(client redis.UniversalClient, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

func historyCacheKey(accountID uint) string {
	return fmt.Sprintf("predictions:history:%d", accountID)
}

func (c *PredictionCache) Get(ctx context.Context, accountID uint) (*HistorySummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, historyCacheKey(accountID)).Bytes()
	if err != nil {
		outcome := "miss"
		if err != redis.Nil {
			outcome = "error"
		}
		observability.RecordPredictionCacheEvent(ctx, outcome)
		return nil, false
	}
	var summary HistorySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		observability.RecordPredictionCacheEvent(ctx, "error")
		return nil, false
	}
	observability.RecordPredictionCacheEvent(ctx, "hit")
	return &summary, true
}

func (c *PredictionCache) Set(ctx context.Context, accountID uint, summary *HistorySummary) {
	if c == nil || c.client == nil || summary == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, historyCacheKey(accountID), raw, c.ttl).Err(); err != nil {
		observability.RecordPredictionCacheEvent(ctx, "error")
	}
}

func (c *PredictionCache) Invalidate(ctx context.Context, accountID uint) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, historyCacheKey(accountID)).Err(); err != nil {
		observability.RecordPredictionCacheEvent(ctx, "error")
		return
	}
	observability.RecordPredictionCacheEvent(ctx, "invalidate")
}
