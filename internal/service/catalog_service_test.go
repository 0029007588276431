package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/embedding"
	"gsu-chatbot-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) Generate(context.Context, string, string) (*embedding.EmbeddingResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.6, 0.8}},
	}, nil
}

func TestCatalogIngestThroughQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeFactory()
	factory.chunks.chunks = []*entity.CatalogChunk{{Id: uuid.New(), Source: "biology.md", Content: "stale"}}
	embedder := &stubEmbedder{}

	consumer := NewConsumerService(pubSub, "catalog_ingest", factory, embedder, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	svc := NewCatalogService(NewPublisherService(pubSub, "catalog_ingest"), &stubContexts{}, logger.NewNopLogger())
	res, err := svc.Ingest(ctx, &dto.IngestDocumentRequest{
		Source:  "biology.md",
		Topic:   "majors",
		Content: strings.Repeat("Biology majors complete BIOL 2107. ", 100),
	})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	assert.Eventually(t, func() bool {
		n, _ := factory.chunks.Count(ctx)
		return n > 1
	}, 2*time.Second, 10*time.Millisecond)

	chunks, _ := factory.chunks.FindAll(ctx)
	for i, c := range chunks {
		assert.Equal(t, "biology.md", c.Source)
		assert.Equal(t, "majors", c.Topic)
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEqual(t, "stale", c.Content)
	}
	assert.Equal(t, []string{"biology.md"}, factory.chunks.deleted)
	assert.Equal(t, len(chunks), embedder.calls)
}

func TestConsumerAcknowledgement(t *testing.T) {
	newMsg := func(v interface{}) *message.Message {
		b, _ := json.Marshal(v)
		return message.NewMessage(watermill.NewUUID(), b)
	}

	t.Run("malformed payload is acked", func(t *testing.T) {
		cs := NewConsumerService(nil, "t", newFakeFactory(), &stubEmbedder{}, logger.NewNopLogger()).(*consumerService)
		msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
		cs.processMessage(context.Background(), msg)
		assertAcked(t, msg)
	})

	t.Run("embedding failure is nacked", func(t *testing.T) {
		factory := newFakeFactory()
		cs := NewConsumerService(nil, "t", factory, &stubEmbedder{err: errBoom}, logger.NewNopLogger()).(*consumerService)
		msg := newMsg(dto.PublishIngestDocumentMessage{Source: "a", Content: "text"})
		cs.processMessage(context.Background(), msg)
		assertNacked(t, msg)
		assert.Empty(t, factory.chunks.deleted)
	})

	t.Run("store failure is nacked", func(t *testing.T) {
		factory := newFakeFactory()
		factory.chunks.createFn = func([]*entity.CatalogChunk) error { return errBoom }
		cs := NewConsumerService(nil, "t", factory, &stubEmbedder{}, logger.NewNopLogger()).(*consumerService)
		msg := newMsg(dto.PublishIngestDocumentMessage{Source: "a", Content: "text"})
		cs.processMessage(context.Background(), msg)
		assertNacked(t, msg)
	})
}

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("message was not acked")
	}
}

func assertNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	default:
		t.Fatal("message was not nacked")
	}
}

func TestCatalogSearch(t *testing.T) {
	contexts := &stubContexts{chunks: []retrieval.Chunk{{ID: "1", Text: "x"}}}
	svc := NewCatalogService(nil, contexts, logger.NewNopLogger())
	ctx := context.Background()

	_, err := svc.Search(ctx, "  ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	res, err := svc.Search(ctx, " biology ", 50)
	require.NoError(t, err)
	assert.Equal(t, "biology", res.Query)
	assert.Equal(t, maxSearchTopK, res.TopK)
	assert.Len(t, res.Results, 1)

	contexts.chunks = nil
	res, err = svc.Search(ctx, "physics", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TopK)
	assert.NotNil(t, res.Results)
}

func TestCatalogIndex(t *testing.T) {
	factory := newFakeFactory()
	id := uuid.New()
	factory.chunks.scored = []*entity.ScoredCatalogChunk{{
		Chunk:      &entity.CatalogChunk{Id: id, Source: "bio.md", Topic: "majors", Content: "BIOL 2107"},
		Similarity: 0.82,
	}}

	chunks, err := NewCatalogIndex(factory).SearchChunks(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, retrieval.Chunk{ID: id.String(), Score: 0.82, Text: "BIOL 2107", Source: "bio.md", Topic: "majors"}, chunks[0])
}
