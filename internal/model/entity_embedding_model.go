package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type EntityEmbedding struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_entity_embeddings_entity"`
	EntityId   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_entity_embeddings_entity"`
	Document   string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text emits 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (EntityEmbedding) TableName() string {
	return "entity_embeddings"
}
