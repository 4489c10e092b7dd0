package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// StatsCache caches the per-tenant dashboard in Redis for a short TTL so
// bursts of dashboard polling do not each fan out into storage queries.
// Counters lag reality by at most the TTL; they are advisory numbers.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a dashboard cache on the given Redis client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (s *StatsCache) key(tenantID string) string {
	return "phishdrill:dashboard:" + tenantID
}

// Get returns the cached dashboard for a tenant, or ok=false on a miss.
// Redis errors count as misses; the dashboard always has the storage
// fallback.
func (s *StatsCache) Get(ctx context.Context, tenantID string) (*Dashboard, bool) {
	raw, err := s.client.Get(ctx, s.key(tenantID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("stats cache read failed", "tenant", tenantID, "error", err.Error())
		}
		return nil, false
	}

	var d Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// Stale or corrupt entry. Drop it and recompute.
		s.client.Del(ctx, s.key(tenantID))
		return nil, false
	}
	return &d, true
}

// Set stores the dashboard for a tenant.
func (s *StatsCache) Set(ctx context.Context, tenantID string, d *Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	if err := s.client.Set(ctx, s.key(tenantID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache dashboard: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard for a tenant.
func (s *StatsCache) Invalidate(ctx context.Context, tenantID string) error {
	return s.client.Del(ctx, s.key(tenantID)).Err()
}
