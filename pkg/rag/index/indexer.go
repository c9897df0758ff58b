// FILE: pkg/rag/index/indexer.go
// PURPOSE: Build and maintain the entity embedding index

package index

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/constant"
	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/contract"
	"inventory-assistant-be/internal/repository/specification"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/pkg/embedding"
)

const (
	// MarkerKey is the index_status row that records whether the entity
	// index has been built and with which embedding model.
	MarkerKey = "entity_index"

	markerVersion = "v1"
)

// Indexer owns the entity embedding table: full rebuilds on startup or
// model change, and single-entity upserts when inventory data changes.
type Indexer struct {
	factory   unitofwork.RepositoryFactory
	embedder  embedding.EmbeddingProvider
	modelName string
	logger    *log.Logger

	ready atomic.Bool
	mu    sync.Mutex // serializes rebuild attempts
}

func NewIndexer(factory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, modelName string, logger *log.Logger) *Indexer {
	return &Indexer{
		factory:   factory,
		embedder:  embedder,
		modelName: modelName,
		logger:    logger,
	}
}

// Ready reports whether the index is usable. Vector retrieval against a
// not-ready index is allowed; it just finds nothing.
func (ix *Indexer) Ready() bool {
	return ix.ready.Load()
}

func (ix *Indexer) markerValue() string {
	return markerVersion + "/" + ix.modelName
}

// EnsureBuilt checks the marker row and rebuilds the index when it is
// missing or was written by a different embedding model. Concurrent calls
// collapse into one rebuild.
func (ix *Indexer) EnsureBuilt(ctx context.Context) error {
	if ix.ready.Load() {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.ready.Load() {
		return nil
	}

	uow := ix.factory.NewUnitOfWork(ctx)
	status, err := uow.IndexStatusRepository().Get(ctx, MarkerKey)
	if err != nil {
		return fmt.Errorf("read index marker: %w", err)
	}
	if status != nil && status.Value == ix.markerValue() {
		ix.logger.Printf("[INDEX] marker %q present, index ready", status.Value)
		ix.ready.Store(true)
		return nil
	}
	if status != nil {
		ix.logger.Printf("[INDEX] marker %q is stale (want %q), rebuilding", status.Value, ix.markerValue())
	} else {
		ix.logger.Printf("[INDEX] no marker, building index")
	}

	if err := ix.rebuildLocked(ctx); err != nil {
		return err
	}
	ix.ready.Store(true)
	return nil
}

// Rebuild re-embeds every entity unconditionally and rewrites the marker.
func (ix *Indexer) Rebuild(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.rebuildLocked(ctx); err != nil {
		return err
	}
	ix.ready.Store(true)
	return nil
}

func (ix *Indexer) rebuildLocked(ctx context.Context) error {
	uow := ix.factory.NewUnitOfWork(ctx)
	embeddings := uow.EntityEmbeddingRepository()

	rooms, err := uow.RoomRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	roomNames := make(map[uuid.UUID]string, len(rooms))
	for _, room := range rooms {
		roomNames[room.Id] = room.Name
		if err := ix.upsertDocument(ctx, embeddings, constant.EntityTypeRoom, room.Id, BuildRoomDocument(room)); err != nil {
			return err
		}
	}

	assets, err := uow.AssetRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	for _, asset := range assets {
		roomName := ""
		if asset.RoomId != nil {
			roomName = roomNames[*asset.RoomId]
		}
		if err := ix.upsertDocument(ctx, embeddings, constant.EntityTypeAsset, asset.Id, BuildAssetDocument(asset, roomName)); err != nil {
			return err
		}
	}

	users, err := uow.UserRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	for _, user := range users {
		if err := ix.upsertDocument(ctx, embeddings, constant.EntityTypeUser, user.Id, BuildUserDocument(user)); err != nil {
			return err
		}
	}

	if err := uow.IndexStatusRepository().Set(ctx, MarkerKey, ix.markerValue()); err != nil {
		return fmt.Errorf("write index marker: %w", err)
	}

	ix.logger.Printf("[INDEX] rebuild complete: %d rooms, %d assets, %d users", len(rooms), len(assets), len(users))
	return nil
}

// IndexEntity refreshes one entity's record. Deleted entities have their
// record removed. Unknown ids are treated as deletions so the index never
// keeps documents for rows that no longer exist.
func (ix *Indexer) IndexEntity(ctx context.Context, entityType string, entityId uuid.UUID, deleted bool) error {
	uow := ix.factory.NewUnitOfWork(ctx)
	embeddings := uow.EntityEmbeddingRepository()

	if deleted {
		return embeddings.DeleteByEntity(ctx, entityType, entityId)
	}

	document, err := ix.buildDocument(ctx, uow, entityType, entityId)
	if err != nil {
		return err
	}
	if document == "" {
		return embeddings.DeleteByEntity(ctx, entityType, entityId)
	}
	return ix.upsertDocument(ctx, embeddings, entityType, entityId, document)
}

func (ix *Indexer) buildDocument(ctx context.Context, uow unitofwork.UnitOfWork, entityType string, entityId uuid.UUID) (string, error) {
	byId := specification.ByID{ID: entityId}

	switch entityType {
	case constant.EntityTypeAsset:
		asset, err := uow.AssetRepository().FindOne(ctx, byId)
		if err != nil || asset == nil {
			return "", err
		}
		roomName := ""
		if asset.RoomId != nil {
			if room, err := uow.RoomRepository().FindOne(ctx, specification.ByID{ID: *asset.RoomId}); err == nil && room != nil {
				roomName = room.Name
			}
		}
		return BuildAssetDocument(asset, roomName), nil
	case constant.EntityTypeRoom:
		room, err := uow.RoomRepository().FindOne(ctx, byId)
		if err != nil || room == nil {
			return "", err
		}
		return BuildRoomDocument(room), nil
	case constant.EntityTypeUser:
		user, err := uow.UserRepository().FindOne(ctx, byId)
		if err != nil || user == nil {
			return "", err
		}
		return BuildUserDocument(user), nil
	default:
		return "", fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func (ix *Indexer) upsertDocument(ctx context.Context, repo contract.EntityEmbeddingRepository, entityType string, entityId uuid.UUID, document string) error {
	vector, err := ix.embedder.Generate(document, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed %s %s: %w", entityType, entityId, err)
	}
	return repo.Upsert(ctx, &entity.EntityEmbedding{
		EntityType: entityType,
		EntityId:   entityId,
		Document:   document,
		Embedding:  vector,
	})
}
