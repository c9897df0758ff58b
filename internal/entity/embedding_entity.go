package entity

import (
	"time"

	"github.com/google/uuid"
)

// EntityEmbedding is one vector record per inventory entity (asset, room, user).
type EntityEmbedding struct {
	Id         uuid.UUID
	EntityType string
	EntityId   uuid.UUID
	Document   string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// ScoredEntityEmbedding pairs a record with its cosine similarity to a query.
type ScoredEntityEmbedding struct {
	Embedding  *EntityEmbedding
	Similarity float64
}

// IndexStatus is an explicit key-value marker; it never participates in
// similarity search.
type IndexStatus struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
