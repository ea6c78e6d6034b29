package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// StatsKey addresses one cached stats snapshot. The day pins the week and
// month windows, the version changes whenever the user logs a workout.
type StatsKey struct {
	UserID  uuid.UUID
	Day     time.Time
	Version int64
}

func (k StatsKey) String() string {
	return fmt.Sprintf("progress-stats::%s::%s::v%d", k.UserID, k.Day.Format("2006-01-02"), k.Version)
}

func statsVersionKey(userID uuid.UUID) string {
	return fmt.Sprintf("progress-stats-version::%s", userID)
}

// RedisStatsCache keeps computed per-user stats in redis. Failures are logged
// and treated as misses, the stats are always recomputable.
type RedisStatsCache struct {
	redisClient    *redis.Client
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewRedisStatsCache(redisClient *redis.Client, ttl time.Duration, metricsManager *metrics.Manager) *RedisStatsCache {
	return &RedisStatsCache{
		redisClient:    redisClient,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

// Version returns the current stats version of the user. The second return
// value is false when redis could not be asked, the caller must then bypass
// the cache.
func (c *RedisStatsCache) Version(ctx context.Context, userID uuid.UUID) (int64, bool) {
	version, err := c.redisClient.Get(ctx, statsVersionKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		log.Errorf("failed to get stats version for %s: %s", userID, err)
		return 0, false
	}
	return version, true
}

func (c *RedisStatsCache) Get(ctx context.Context, key StatsKey) (*Stats, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.progress.stats.get")
	defer span.End()

	statsJson, err := c.redisClient.Get(ctx, key.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to get stats from redis for [%s]: %s", key, err)
		}
		c.metricsManager.CounterStatsCacheHits.WithLabelValues("miss").Inc()
		span.SetAttributes(attribute.Bool("stats.from-cache", false))
		return nil, false
	}

	stats := &Stats{}
	if err := json.Unmarshal([]byte(statsJson), stats); err != nil {
		log.Errorf("failed to unmarshal cached stats for %s: %s", key, err)
		c.metricsManager.CounterStatsCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	c.metricsManager.CounterStatsCacheHits.WithLabelValues("hit").Inc()
	span.SetAttributes(attribute.Bool("stats.from-cache", true))
	return stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, key StatsKey, stats *Stats) {
	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal stats for %s: %s", key, err)
		return
	}
	if err := c.redisClient.Set(ctx, key.String(), statsJson, c.ttl).Err(); err != nil {
		log.Errorf("failed to cache stats for %s: %s", key, err)
	}
}

// Invalidate bumps the user's stats version. Snapshots stored under an older
// version are never read again and expire with their TTL.
func (c *RedisStatsCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.redisClient.Incr(ctx, statsVersionKey(userID)).Err(); err != nil {
		log.Errorf("failed to invalidate cached stats for %s: %s", userID, err)
	}
}
