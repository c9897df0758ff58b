package mapper

import (
	"time"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type EmbeddingMapper struct{}

func NewEmbeddingMapper() *EmbeddingMapper {
	return &EmbeddingMapper{}
}

func (m *EmbeddingMapper) ToEntity(e *model.EntityEmbedding) *entity.EntityEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.EntityEmbedding{
		Id:         e.Id,
		EntityType: e.EntityType,
		EntityId:   e.EntityId,
		Document:   e.Document,
		Embedding:  e.Embedding.Slice(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *EmbeddingMapper) ToModel(e *entity.EntityEmbedding) *model.EntityEmbedding {
	if e == nil {
		return nil
	}

	return &model.EntityEmbedding{
		Id:         e.Id,
		EntityType: e.EntityType,
		EntityId:   e.EntityId,
		Document:   e.Document,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
	}
}
