package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// resultTTL is short on purpose: prize tables fill in over the course of
// an extraction, and a stale partial set would hold wagers pending.
const resultTTL = 2 * time.Minute

// ResultCache implements domain.ResultCache using Redis strings with
// JSON-serialized result slots.
//
// Key schema:
//
//	result:{code}:{yyyy-mm-dd} - JSON array of normalized result slots
type ResultCache struct {
	rdb *redis.Client
}

// NewResultCache creates a ResultCache backed by the given Client.
func NewResultCache(c *Client) *ResultCache {
	return &ResultCache{rdb: c.Underlying()}
}

func resultKey(code string, date time.Time) string {
	return "result:" + code + ":" + date.Format("2006-01-02")
}

// Get retrieves cached results for a (code, date) pair.
// It returns domain.ErrNotFound when the key does not exist.
func (rc *ResultCache) Get(ctx context.Context, code string, date time.Time) ([]domain.OfficialResult, error) {
	data, err := rc.rdb.Get(ctx, resultKey(code, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get results %s: %w", code, err)
	}

	var results []domain.OfficialResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("redis: unmarshal results %s: %w", code, err)
	}
	return results, nil
}

// Set stores results for a (code, date) pair with a short TTL.
func (rc *ResultCache) Set(ctx context.Context, code string, date time.Time, results []domain.OfficialResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("redis: marshal results %s: %w", code, err)
	}
	if err := rc.rdb.Set(ctx, resultKey(code, date), data, resultTTL).Err(); err != nil {
		return fmt.Errorf("redis: set results %s: %w", code, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
