package api

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

// Asker answers free-text questions about a fire.
type Asker interface {
	Ask(ctx context.Context, fireID, question string) (string, error)
}

// CachedAsker wraps an Asker with a bounded LRU cache keyed by fire and question.
type CachedAsker struct {
	inner   Asker
	cache   *lru.Cache[string, string]
	metrics *observability.Metrics
}

// NewCachedAsker creates a cache decorator around an asker.
func NewCachedAsker(inner Asker, maxEntries int, metrics *observability.Metrics) (*CachedAsker, error) {
	cache, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, err
	}
	return &CachedAsker{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedAsker) Ask(ctx context.Context, fireID, question string) (string, error) {
	key := fireID + "\x00" + strings.ToLower(strings.TrimSpace(question))
	if answer, ok := c.cache.Get(key); ok {
		c.metrics.AnswerCache.WithLabelValues("hit").Inc()
		return answer, nil
	}
	c.metrics.AnswerCache.WithLabelValues("miss").Inc()

	answer, err := c.inner.Ask(ctx, fireID, question)
	if err != nil {
		return "", err
	}
	// Only cache non-empty answers so a blank reply can be retried.
	if answer != "" {
		c.cache.Add(key, answer)
	}
	return answer, nil
}

// Len reports the number of cached answers.
func (c *CachedAsker) Len() int {
	return c.cache.Len()
}
