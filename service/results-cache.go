package service

import (
	"fmt"
	"sync"
	"time"

	"gala/logging"
	"gala/metrics"

	"github.com/gin-contrib/cache/persistence"
)

// ResultsCache keeps computed results per gala and category filter. Invalidation bumps the
// gala's generation so entries computed before a mutation are never served after it.
type ResultsCache struct {
	store       persistence.CacheStore
	ttl         time.Duration
	mu          sync.Mutex
	generations map[int]uint64
	listeners   []func(galaId int)
}

func NewResultsCache(store persistence.CacheStore, ttl time.Duration) *ResultsCache {
	return &ResultsCache{
		store:       store,
		ttl:         ttl,
		generations: make(map[int]uint64),
	}
}

func (c *ResultsCache) key(galaId int, categoryId *int) string {
	c.mu.Lock()
	generation := c.generations[galaId]
	c.mu.Unlock()
	category := "all"
	if categoryId != nil {
		category = fmt.Sprint(*categoryId)
	}
	return fmt.Sprintf("results:%d:%d:%s", galaId, generation, category)
}

func (c *ResultsCache) get(key string) (*Results, bool) {
	var results *Results
	if err := c.store.Get(key, &results); err != nil {
		metrics.ResultsCacheCounter.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ResultsCacheCounter.WithLabelValues("hit").Inc()
	return results, true
}

func (c *ResultsCache) set(key string, results *Results) {
	if err := c.store.Set(key, results, c.ttl); err != nil {
		logging.Log.WithField("key", key).WithError(err).Warn("failed to cache results")
	}
}

func (c *ResultsCache) Invalidate(galaId int) {
	c.mu.Lock()
	c.generations[galaId]++
	listeners := make([]func(int), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, listener := range listeners {
		listener(galaId)
	}
}

// OnInvalidate registers a callback run synchronously after every invalidation.
func (c *ResultsCache) OnInvalidate(listener func(galaId int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}
