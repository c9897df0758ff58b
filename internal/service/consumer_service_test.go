package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"inventory-assistant-be/internal/dto"
)

type indexedCall struct {
	entityType string
	entityId   uuid.UUID
	deleted    bool
}

type recordingIndexer struct {
	mu    sync.Mutex
	calls []indexedCall
	done  chan struct{}
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{done: make(chan struct{}, 8)}
}

func (r *recordingIndexer) IndexEntity(ctx context.Context, entityType string, entityId uuid.UUID, deleted bool) error {
	r.mu.Lock()
	r.calls = append(r.calls, indexedCall{entityType: entityType, entityId: entityId, deleted: deleted})
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingIndexer) snapshot() []indexedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]indexedCall{}, r.calls...)
}

func TestPublishedEntityReachesIndexer(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	indexer := newRecordingIndexer()
	consumer := NewConsumerService(pubSub, "entity-changed-test", indexer)
	publisher := NewPublisherService("entity-changed-test", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Consume(ctx); err != nil {
		t.Fatalf("failed to start consumer: %v", err)
	}

	entityId := uuid.New()
	payload, err := json.Marshal(dto.PublishEmbedEntityMessage{
		EntityType: "asset",
		EntityId:   entityId,
		Deleted:    true,
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	if err := publisher.Publish(ctx, payload); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	select {
	case <-indexer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the indexer to be called")
	}

	calls := indexer.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 indexer call, got %d", len(calls))
	}
	got := calls[0]
	if got.entityType != "asset" || got.entityId != entityId || !got.deleted {
		t.Errorf("unexpected indexer call: %+v", got)
	}
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	indexer := newRecordingIndexer()
	consumer := NewConsumerService(pubSub, "entity-changed-test", indexer)
	publisher := NewPublisherService("entity-changed-test", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Consume(ctx); err != nil {
		t.Fatalf("failed to start consumer: %v", err)
	}

	if err := publisher.Publish(ctx, []byte("not json")); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	// A malformed payload is dropped, so the indexer stays untouched.
	select {
	case <-indexer.done:
		t.Fatal("malformed payload must not reach the indexer")
	case <-time.After(200 * time.Millisecond):
	}
}
