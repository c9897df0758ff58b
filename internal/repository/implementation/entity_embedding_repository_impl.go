package implementation

import (
	"context"
	"errors"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/mapper"
	"inventory-assistant-be/internal/model"
	"inventory-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntityEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewEntityEmbeddingRepository(db *gorm.DB) contract.EntityEmbeddingRepository {
	return &EntityEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *EntityEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.EntityEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "embedding", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *EntityEmbeddingRepositoryImpl) DeleteByEntity(ctx context.Context, entityType string, entityId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityId).
		Delete(&model.EntityEmbedding{}).Error
}

func (r *EntityEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EntityEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs cosine-distance search in pgvector.
// Cosine distance is 1 - cosine_similarity, so the score projected out is
// 1 - (embedding <=> query_vector).
func (r *EntityEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredEntityEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.EntityEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("entity_embeddings").
		Select("entity_embeddings.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("entity_embeddings.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredEntityEmbedding, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredEntityEmbedding{
			Embedding:  r.mapper.ToEntity(&res.EntityEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

type IndexStatusRepositoryImpl struct {
	db *gorm.DB
}

func NewIndexStatusRepository(db *gorm.DB) contract.IndexStatusRepository {
	return &IndexStatusRepositoryImpl{db: db}
}

func (r *IndexStatusRepositoryImpl) Get(ctx context.Context, key string) (*entity.IndexStatus, error) {
	var m model.IndexStatus
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.IndexStatus{Key: m.Key, Value: m.Value, UpdatedAt: m.UpdatedAt}, nil
}

func (r *IndexStatusRepositoryImpl) Set(ctx context.Context, key, value string) error {
	m := model.IndexStatus{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}
