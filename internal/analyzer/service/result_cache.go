package service

import (
	"sync"
	"time"

	"golang-sentiment-scryper/internal/analyzer/dto"

	"github.com/patrickmn/go-cache"
)

// ResultCache holds the last record produced per content id.
type ResultCache interface {
	// Get returns the cached record if it was produced by model and is still fresh.
	// Stale or mismatched entries are removed.
	Get(id, model string) (dto.SentimentRecord, bool)
	Put(id string, record dto.SentimentRecord, model string)
	// Explanation returns a stored explanation for a valid entry.
	Explanation(id, model string) (sentiment, explanation string, ok bool)
	// UpdateExplanation overwrites only sentiment and explanation of a valid
	// entry produced by model.
	UpdateExplanation(id, model, sentiment, explanation string) bool
	// PurgeExpired removes entries older than the freshness window.
	PurgeExpired() int
	Len() int
}

type cacheEntry struct {
	Record     dto.SentimentRecord
	Model      string
	CapturedAt time.Time
}

type resultCache struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewNewsResultCache returns a cache whose entries only go stale on a model change.
func NewNewsResultCache() ResultCache {
	return newResultCache(0, time.Now)
}

// NewVideoResultCache returns a cache whose entries also expire after ttl.
// A nil now uses time.Now.
func NewVideoResultCache(ttl time.Duration, now func() time.Time) ResultCache {
	if now == nil {
		now = time.Now
	}
	return newResultCache(ttl, now)
}

func newResultCache(ttl time.Duration, now func() time.Time) *resultCache {
	return &resultCache{
		items: cache.New(cache.NoExpiration, 0),
		ttl:   ttl,
		now:   now,
	}
}

func (c *resultCache) Get(id, model string) (dto.SentimentRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.validEntry(id, model)
	if !ok {
		return dto.SentimentRecord{}, false
	}
	return entry.Record, true
}

func (c *resultCache) Put(id string, record dto.SentimentRecord, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record.Model = model
	c.items.Set(id, &cacheEntry{
		Record:     record,
		Model:      model,
		CapturedAt: c.now(),
	}, cache.NoExpiration)
}

func (c *resultCache) Explanation(id, model string) (string, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.validEntry(id, model)
	if !ok || entry.Record.Explanation == nil || *entry.Record.Explanation == "" {
		return "", "", false
	}
	return entry.Record.Sentiment, *entry.Record.Explanation, true
}

func (c *resultCache) UpdateExplanation(id, model, sentiment, explanation string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.validEntry(id, model)
	if !ok {
		return false
	}
	entry.Record.Sentiment = sentiment
	entry.Record.Explanation = &explanation
	return true
}

func (c *resultCache) PurgeExpired() int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	purged := 0
	now := c.now()
	for id, item := range c.items.Items() {
		entry := item.Object.(*cacheEntry)
		if now.Sub(entry.CapturedAt) >= c.ttl {
			c.items.Delete(id)
			purged++
		}
	}
	return purged
}

func (c *resultCache) Len() int {
	return c.items.ItemCount()
}

// validEntry must be called with c.mu held.
func (c *resultCache) validEntry(id, model string) (*cacheEntry, bool) {
	v, ok := c.items.Get(id)
	if !ok {
		return nil, false
	}
	entry := v.(*cacheEntry)
	if entry.Model != model || (c.ttl > 0 && c.now().Sub(entry.CapturedAt) >= c.ttl) {
		c.items.Delete(id)
		return nil, false
	}
	return entry, true
}
