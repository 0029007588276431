package entity

import (
	"time"

	"github.com/google/uuid"
)

type CatalogChunk struct {
	Id             uuid.UUID
	Source         string
	Topic          string
	ChunkIndex     int
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ScoredCatalogChunk pairs a chunk with its cosine similarity to a query.
type ScoredCatalogChunk struct {
	Chunk      *CatalogChunk
	Similarity float64
}
