package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang-sentiment-scryper/pkg/logger"

	"github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
)

const classificationKeyPrefix = "classification:"

// Classification is a memoized classifier answer.
type Classification struct {
	Label       string `json:"label"`
	Explanation string `json:"explanation,omitempty"`
}

// ClassificationCacheRepository memoizes classifier answers by key.
type ClassificationCacheRepository interface {
	Get(ctx context.Context, key string) (Classification, bool)
	Set(ctx context.Context, key string, value Classification)
}

type memoryClassificationCache struct {
	cache *cache.Cache
}

// NewMemoryClassificationCache returns a process-local store whose entries
// never expire.
func NewMemoryClassificationCache() ClassificationCacheRepository {
	return &memoryClassificationCache{cache: cache.New(cache.NoExpiration, 0)}
}

func (c *memoryClassificationCache) Get(_ context.Context, key string) (Classification, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return Classification{}, false
	}
	return v.(Classification), true
}

func (c *memoryClassificationCache) Set(_ context.Context, key string, value Classification) {
	c.cache.Set(key, value, cache.NoExpiration)
}

// redisClassificationCache keeps a process-local tier in front of Redis so
// several service instances share answers while repeated lookups stay local.
type redisClassificationCache struct {
	local  ClassificationCacheRepository
	client *goredis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisClassificationCache creates a two-tier store backed by Redis.
// Redis failures are logged and treated as misses.
func NewRedisClassificationCache(client *goredis.Client, ttl time.Duration, log *logger.Logger) ClassificationCacheRepository {
	return &redisClassificationCache{
		local:  NewMemoryClassificationCache(),
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *redisClassificationCache) Get(ctx context.Context, key string) (Classification, bool) {
	if v, ok := c.local.Get(ctx, key); ok {
		return v, true
	}

	raw, err := c.client.Get(ctx, classificationKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("Failed to read classification from redis", logger.StringField("key", key), logger.ErrorField(err))
		}
		return Classification{}, false
	}

	var v Classification
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("Failed to decode cached classification", logger.StringField("key", key), logger.ErrorField(err))
		return Classification{}, false
	}
	c.local.Set(ctx, key, v)
	return v, true
}

func (c *redisClassificationCache) Set(ctx context.Context, key string, value Classification) {
	c.local.Set(ctx, key, value)

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, classificationKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write classification to redis", logger.StringField("key", key), logger.ErrorField(err))
	}
}
