// Package cache keeps the latest received position per vessel in Redis so the
// API can answer "where is it now" without touching the positions collection.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portwatch/internal/core/model"
	"portwatch/internal/logging"
)

const (
	latestPositionKeyPrefix = "position:latest:"
	latestPositionTTL       = time.Hour
)

// Cache is a latest-position cache. Construct it with New; without a Redis
// URL (or when the connection fails) every method is a no-op, so callers
// never need to branch on availability.
type Cache struct {
	client *redis.Client
}

func New(redisURL string) *Cache {
	if redisURL == "" {
		logging.Info().Msg("redis url not set, latest-position cache disabled")
		return &Cache{}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logging.Warn().Err(err).Msg("invalid redis url, latest-position cache disabled")
		return &Cache{}
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("redis unreachable, latest-position cache disabled")
		return &Cache{}
	}

	logging.Info().Msg("latest-position cache initialized")
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool { return c.client != nil }

func (c *Cache) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// SetLatestPosition stores the position under the vessel's key.
func (c *Cache) SetLatestPosition(ctx context.Context, position *model.Position) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(position)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, latestPositionKey(position.MMSI), data, latestPositionTTL).Err()
}

// GetLatestPosition returns the cached position, or nil on a miss.
func (c *Cache) GetLatestPosition(ctx context.Context, mmsi int64) (*model.Position, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, latestPositionKey(mmsi)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var position model.Position
	if err := json.Unmarshal(data, &position); err != nil {
		return nil, err
	}
	return &position, nil
}

func latestPositionKey(mmsi int64) string {
	return fmt.Sprintf("%s%d", latestPositionKeyPrefix, mmsi)
}
