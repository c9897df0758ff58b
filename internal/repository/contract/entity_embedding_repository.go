package contract

import (
	"context"

	"inventory-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type EntityEmbeddingRepository interface {
	// Upsert writes the record keyed by (entity_type, entity_id); the vector
	// and source document are replaced when the entity changes.
	Upsert(ctx context.Context, embedding *entity.EntityEmbedding) error
	DeleteByEntity(ctx context.Context, entityType string, entityId uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredEntityEmbedding, error)
}

type IndexStatusRepository interface {
	Get(ctx context.Context, key string) (*entity.IndexStatus, error)
	Set(ctx context.Context, key, value string) error
}
