package mapper

import (
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ToEntity(c *model.CatalogChunk) *entity.CatalogChunk {
	if c == nil {
		return nil
	}

	e := &entity.CatalogChunk{
		Id:             c.Id,
		Source:         c.Source,
		Topic:          c.Topic,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		e.UpdatedAt = &t
	}
	return e
}

func (m *CatalogMapper) ToModel(e *entity.CatalogChunk) *model.CatalogChunk {
	if e == nil {
		return nil
	}

	c := &model.CatalogChunk{
		Id:             e.Id,
		Source:         e.Source,
		Topic:          e.Topic,
		ChunkIndex:     e.ChunkIndex,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		c.UpdatedAt = *e.UpdatedAt
	}
	return c
}

func (m *CatalogMapper) ToEntities(models []*model.CatalogChunk) []*entity.CatalogChunk {
	out := make([]*entity.CatalogChunk, len(models))
	for i, c := range models {
		out[i] = m.ToEntity(c)
	}
	return out
}
