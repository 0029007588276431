package implementation

import (
	"context"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/mapper"
	"gsu-chatbot-be/internal/model"
	"gsu-chatbot-be/internal/repository/contract"
	"gsu-chatbot-be/internal/repository/scope"
	"gsu-chatbot-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewCatalogChunkRepository(db *gorm.DB) contract.CatalogChunkRepository {
	return &CatalogChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *CatalogChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CatalogChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.CatalogChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.CatalogChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CatalogChunkRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.CatalogChunk{}).Error
}

func (r *CatalogChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogChunk, error) {
	var models []*model.CatalogChunk
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByChunkIndex), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CatalogChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CatalogChunk{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *CatalogChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredCatalogChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	// pgvector <=> is cosine distance, so similarity is 1 - distance.
	type result struct {
		model.CatalogChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("catalog_chunks").
		Select("catalog_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Scopes(scope.ExcludeSoftDeleted("catalog_chunks")).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredCatalogChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredCatalogChunk{
			Chunk:      r.mapper.ToEntity(&res.CatalogChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
