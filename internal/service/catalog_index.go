package service

import (
	"context"

	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/pkg/retrieval"
)

// minCatalogSimilarity drops chunks that point away from the query.
const minCatalogSimilarity = 0.0

type catalogIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCatalogIndex(uowFactory unitofwork.RepositoryFactory) retrieval.Index {
	return &catalogIndex{uowFactory: uowFactory}
}

func (i *catalogIndex) SearchChunks(ctx context.Context, vector []float32, topK int) ([]retrieval.Chunk, error) {
	uow := i.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.CatalogChunkRepository().SearchSimilarWithScore(ctx, vector, topK, minCatalogSimilarity)
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.Chunk, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, retrieval.Chunk{
			ID:     s.Chunk.Id.String(),
			Score:  s.Similarity,
			Text:   s.Chunk.Content,
			Source: s.Chunk.Source,
			Topic:  s.Chunk.Topic,
		})
	}
	return chunks, nil
}
