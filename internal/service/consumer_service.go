// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"inventory-assistant-be/internal/dto"

	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EntityIndexer is the slice of the index package the consumer needs.
type EntityIndexer interface {
	IndexEntity(ctx context.Context, entityType string, entityId uuid.UUID, deleted bool) error
}

// consumerService drains the entity-changed topic and refreshes the
// embedding index one entity at a time.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	indexer   EntityIndexer
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	indexer EntityIndexer,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		indexer:   indexer,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedEntityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal entity message: %v", err)
		msg.Ack() // malformed messages would retry forever
		return
	}

	log.Printf("[INFO] Reindexing %s %s (deleted=%t)", payload.EntityType, payload.EntityId, payload.Deleted)

	if err := cs.indexer.IndexEntity(ctx, payload.EntityType, payload.EntityId, payload.Deleted); err != nil {
		log.Printf("[ERROR] Failed to reindex %s %s: %v", payload.EntityType, payload.EntityId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
