package contract

import (
	"context"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/repository/specification"
)

type CatalogChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.CatalogChunk) error
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks ordered by cosine similarity,
	// dropping those below threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredCatalogChunk, error)
}
