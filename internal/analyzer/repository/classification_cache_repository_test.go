package repository

import (
	"context"
	"testing"
	"time"

	"golang-sentiment-scryper/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryClassificationCache(t *testing.T) {
	c := NewMemoryClassificationCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "m:text")
	assert.False(t, ok)

	c.Set(ctx, "m:text", Classification{Label: "positive"})
	c.Set(ctx, "m:text_with_explanation", Classification{Label: "positive", Explanation: "Because."})

	got, ok := c.Get(ctx, "m:text")
	assert.True(t, ok)
	assert.Equal(t, Classification{Label: "positive"}, got)

	got, ok = c.Get(ctx, "m:text_with_explanation")
	assert.True(t, ok)
	assert.Equal(t, "Because.", got.Explanation)
}

func TestRedisClassificationCache_UnreachableRedisFallsBackToLocal(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisClassificationCache(client, time.Hour, logger.NewNop())
	ctx := context.Background()

	_, ok := c.Get(ctx, "m:text")
	assert.False(t, ok)

	c.Set(ctx, "m:text", Classification{Label: "neutral"})
	got, ok := c.Get(ctx, "m:text")
	assert.True(t, ok)
	assert.Equal(t, "neutral", got.Label)
}
