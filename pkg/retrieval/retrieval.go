package retrieval

import (
	"context"
	"fmt"
	"strings"

	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/embedding"
	"gsu-chatbot-be/pkg/llm"
)

// Chunk is one ranked passage from the catalog index.
type Chunk struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Topic  string  `json:"topic"`
}

// Index performs nearest-neighbour search over embedded catalog chunks.
type Index interface {
	SearchChunks(ctx context.Context, vector []float32, topK int) ([]Chunk, error)
}

// ContextProvider answers free-text queries and builds per-major context.
type ContextProvider interface {
	Search(ctx context.Context, query string, topK int) ([]Chunk, error)
	MajorContext(ctx context.Context, major string, topK int) *MajorContext
}

type Provider struct {
	embedder embedding.EmbeddingProvider
	index    Index
	cache    QueryCache
	logger   logger.ILogger
}

var _ ContextProvider = (*Provider)(nil)

func NewProvider(embedder embedding.EmbeddingProvider, index Index, cache QueryCache, logger logger.ILogger) *Provider {
	return &Provider{
		embedder: embedder,
		index:    index,
		cache:    cache,
		logger:   logger,
	}
}

// CacheKey normalizes a query so trivially different spellings share an entry.
func CacheKey(query string, topK int) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), topK)
}

// Search returns up to topK chunks for query. Quota errors are returned so
// callers can surface billing guidance; every other failure degrades to an
// empty result.
func (p *Provider) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	if topK <= 0 {
		topK = 3
	}
	key := CacheKey(query, topK)
	if p.cache != nil {
		if chunks, ok := p.cache.Get(key); ok {
			p.logger.Debug("RETRIEVAL", "Query cache hit", map[string]interface{}{"key": key})
			return chunks, nil
		}
	}

	if p.embedder == nil || p.index == nil {
		p.logger.Warn("RETRIEVAL", "Retrieval not configured, returning empty context", nil)
		return []Chunk{}, nil
	}

	emb, err := p.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return p.degrade(query, err)
	}

	chunks, err := p.index.SearchChunks(ctx, emb.Embedding.Values, topK)
	if err != nil {
		return p.degrade(query, err)
	}
	if chunks == nil {
		chunks = []Chunk{}
	}

	if p.cache != nil {
		p.cache.Set(key, chunks)
	}
	return chunks, nil
}

func (p *Provider) degrade(query string, err error) ([]Chunk, error) {
	if llm.IsQuotaExceeded(err) {
		return nil, err
	}
	p.logger.Error("RETRIEVAL", "Search failed, returning empty context", map[string]interface{}{
		"query": query,
		"error": err.Error(),
	})
	return []Chunk{}, nil
}
