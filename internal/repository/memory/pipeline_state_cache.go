package memory

import (
	"context"
	"time"

	"gsu-chatbot-be/pkg/pipeline"

	"github.com/patrickmn/go-cache"
)

// PipelineStateCache keeps pipeline states in process memory. Entries expire
// after the configured TTL of inactivity.
type PipelineStateCache struct {
	cache *cache.Cache
}

var _ pipeline.Cache = (*PipelineStateCache)(nil)

func NewPipelineStateCache(ttl time.Duration) *PipelineStateCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PipelineStateCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *PipelineStateCache) Set(_ context.Context, state *pipeline.PipelineState) error {
	c.cache.Set(state.SessionID, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (c *PipelineStateCache) Get(_ context.Context, sessionID string) (*pipeline.PipelineState, bool) {
	if x, found := c.cache.Get(sessionID); found {
		return x.(*pipeline.PipelineState).Clone(), true
	}
	return nil, false
}

func (c *PipelineStateCache) Len() int {
	return c.cache.ItemCount()
}
