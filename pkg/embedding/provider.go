package embedding

// Task types passed through to providers that distinguish document and query
// embeddings. Providers may ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Dimensions of every vector produced by the providers in this package.
// The entity_embeddings column is sized to match; the indexer and the
// retriever must share one provider so the embedding space stays consistent.
const Dimensions = 768

// EmbeddingProvider turns text into a fixed-width vector. Implementations
// must be stable across calls for the same text.
type EmbeddingProvider interface {
	Generate(text string, taskType string) ([]float32, error)
}
