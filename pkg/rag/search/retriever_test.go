package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/pkg/logger"
	"inventory-assistant-be/pkg/embedding"
)

type fakeSearcher struct {
	hits      []*entity.ScoredEntityEmbedding
	err       error
	gotLimit  int
	gotVector []float32
}

func (f *fakeSearcher) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*entity.ScoredEntityEmbedding, error) {
	f.gotVector = vec
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(text string, taskType string) ([]float32, error) {
	return nil, errors.New("embedding service down")
}

func testLogger() logger.ILogger {
	return logger.NewNopLogger()
}

type warnCapturingLogger struct {
	warns []string
}

func (w *warnCapturingLogger) Debug(module, message string, details map[string]interface{}) {}
func (w *warnCapturingLogger) Info(module, message string, details map[string]interface{})  {}
func (w *warnCapturingLogger) Warn(module, message string, details map[string]interface{}) {
	w.warns = append(w.warns, module+": "+message)
}
func (w *warnCapturingLogger) Error(module, message string, details map[string]interface{}) {}
func (w *warnCapturingLogger) Sync() error                                                  { return nil }

func TestRetrieveReturnsSnippets(t *testing.T) {
	entityId := uuid.New()
	searcher := &fakeSearcher{hits: []*entity.ScoredEntityEmbedding{
		{
			Embedding:  &entity.EntityEmbedding{EntityType: "asset", EntityId: entityId, Document: "Máy chiếu Epson, phòng A1-101"},
			Similarity: 0.91,
		},
	}}
	retriever := NewVectorRetriever(embedding.NewHashProvider(), searcher, 5, testLogger())

	snippets := retriever.Retrieve(context.Background(), "máy chiếu ở đâu?")

	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
	if snippets[0].EntityType != "asset" || snippets[0].EntityID != entityId {
		t.Errorf("unexpected snippet identity: %+v", snippets[0])
	}
	if snippets[0].Score != 0.91 {
		t.Errorf("expected score 0.91, got %f", snippets[0].Score)
	}
	if searcher.gotLimit != 5 {
		t.Errorf("expected topK 5, got %d", searcher.gotLimit)
	}
	if len(searcher.gotVector) != embedding.Dimensions {
		t.Errorf("expected a %d-dim query vector, got %d", embedding.Dimensions, len(searcher.gotVector))
	}
}

func TestRetrieveEmbeddingFailureDegrades(t *testing.T) {
	retriever := NewVectorRetriever(failingEmbedder{}, &fakeSearcher{}, 5, testLogger())

	snippets := retriever.Retrieve(context.Background(), "anything")

	if len(snippets) != 0 {
		t.Fatalf("expected no snippets on embedding failure, got %d", len(snippets))
	}
}

func TestRetrieveSearchFailureDegrades(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("db gone")}
	retriever := NewVectorRetriever(embedding.NewHashProvider(), searcher, 5, testLogger())

	snippets := retriever.Retrieve(context.Background(), "anything")

	if len(snippets) != 0 {
		t.Fatalf("expected no snippets on search failure, got %d", len(snippets))
	}
}

func TestRetrieveFailuresAreWarned(t *testing.T) {
	rec := &warnCapturingLogger{}
	retriever := NewVectorRetriever(failingEmbedder{}, &fakeSearcher{}, 5, rec)

	retriever.Retrieve(context.Background(), "anything")

	if len(rec.warns) != 1 || !strings.Contains(rec.warns[0], "query embedding failed") {
		t.Errorf("expected a warning for the failed embedding, got %v", rec.warns)
	}
}
