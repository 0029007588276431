// Package rediscache stores pipeline states in Redis so several API
// instances can share one conversation.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/pipeline"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pipeline:state:"

type PipelineStateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

var _ pipeline.Cache = (*PipelineStateCache)(nil)

func NewPipelineStateCache(client *redis.Client, ttl time.Duration, log logger.ILogger) *PipelineStateCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PipelineStateCache{client: client, ttl: ttl, logger: log}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

func (c *PipelineStateCache) Set(ctx context.Context, state *pipeline.PipelineState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(state.SessionID), payload, c.ttl).Err()
}

// Get treats unreachable Redis as a miss so the store falls through to the
// durable tier.
func (c *PipelineStateCache) Get(ctx context.Context, sessionID string) (*pipeline.PipelineState, bool) {
	raw, err := c.client.Get(ctx, Key(sessionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("REDIS", "Pipeline state read failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return nil, false
	}

	var st pipeline.PipelineState
	if err := json.Unmarshal(raw, &st); err != nil {
		c.logger.Warn("REDIS", "Discarding malformed pipeline state", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, false
	}
	return &st, true
}
