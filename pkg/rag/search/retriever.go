// FILE: pkg/rag/search/retriever.go
// PURPOSE: Semantic lookup over the entity embedding index

package search

import (
	"context"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/pkg/logger"
	"inventory-assistant-be/pkg/embedding"
)

// Snippet is one vector hit, shaped for prompt assembly.
type Snippet struct {
	EntityType string
	EntityID   uuid.UUID
	SourceText string
	Score      float64
}

type embeddingSearcher interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredEntityEmbedding, error)
}

// VectorRetriever embeds a question and finds the nearest entity documents.
// It never fails the request: embedding or search errors degrade to an
// empty snippet list so the rest of the pipeline keeps going.
type VectorRetriever struct {
	embedder embedding.EmbeddingProvider
	searcher embeddingSearcher
	topK     int
	logger   logger.ILogger
}

func NewVectorRetriever(embedder embedding.EmbeddingProvider, searcher embeddingSearcher, topK int, logger logger.ILogger) *VectorRetriever {
	return &VectorRetriever{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, question string) []Snippet {
	queryVector, err := r.embedder.Generate(question, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Warn("SEARCH", "query embedding failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	scored, err := r.searcher.SearchSimilarWithScore(ctx, queryVector, r.topK)
	if err != nil {
		r.logger.Warn("SEARCH", "similarity search failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	snippets := make([]Snippet, 0, len(scored))
	for _, hit := range scored {
		snippets = append(snippets, Snippet{
			EntityType: hit.Embedding.EntityType,
			EntityID:   hit.Embedding.EntityId,
			SourceText: hit.Embedding.Document,
			Score:      hit.Similarity,
		})
	}
	return snippets
}
