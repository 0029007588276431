package rediscache

import (
	"context"
	"testing"
	"time"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/internal/repository/memory"
	"gsu-chatbot-be/pkg/pipeline"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "pipeline:state:abc", Key("abc"))
}

func TestUnreachableRedisReadsAsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewPipelineStateCache(client, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	_, ok := c.Get(ctx, "s1")
	assert.False(t, ok)

	err := c.Set(ctx, &pipeline.PipelineState{SessionID: "s1"})
	assert.Error(t, err)
}

func TestStoreSurvivesUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	log := logger.NewNopLogger()
	store := pipeline.NewStore(
		memory.NewPipelineStateCache(time.Minute),
		NewPipelineStateCache(client, time.Minute, log),
		nil,
		log,
	)
	ctx := context.Background()

	require.True(t, store.Update(ctx, "s1", pipeline.StateCollectingWorkload, pipeline.Data{Major: "Biology"}))

	st := store.Get(ctx, "s1")
	assert.Equal(t, pipeline.StateCollectingWorkload, st.State)
	assert.Equal(t, "Biology", st.Data.Major)
}
