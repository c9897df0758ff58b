package index

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/constant"
	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/contract"
	"inventory-assistant-be/internal/repository/specification"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/pkg/embedding"
)

// In-memory repository fakes. Only the methods the indexer touches are
// backed by real data; the rest return zero values.

type memStore struct {
	assets     []*entity.Asset
	rooms      []*entity.Room
	users      []*entity.User
	embeddings map[string]*entity.EntityEmbedding // keyed by type/id
	status     map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		embeddings: map[string]*entity.EntityEmbedding{},
		status:     map[string]string{},
	}
}

func embKey(entityType string, id uuid.UUID) string {
	return entityType + "/" + id.String()
}

type memUow struct{ store *memStore }

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) AssetRepository() contract.AssetRepository { return &memAssetRepo{u.store} }
func (u *memUow) RoomRepository() contract.RoomRepository   { return &memRoomRepo{u.store} }
func (u *memUow) UserRepository() contract.UserRepository   { return &memUserRepo{u.store} }
func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *memUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *memUow) EntityEmbeddingRepository() contract.EntityEmbeddingRepository {
	return &memEmbeddingRepo{u.store}
}
func (u *memUow) IndexStatusRepository() contract.IndexStatusRepository {
	return &memStatusRepo{u.store}
}

type memFactory struct{ store *memStore }

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{f.store}
}

type memAssetRepo struct{ store *memStore }

func (r *memAssetRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error) {
	if len(r.store.assets) > 0 {
		return r.store.assets[0], nil
	}
	return nil, nil
}
func (r *memAssetRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error) {
	return r.store.assets, nil
}
func (r *memAssetRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.assets)), nil
}

type memRoomRepo struct{ store *memStore }

func (r *memRoomRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Room, error) {
	if len(r.store.rooms) > 0 {
		return r.store.rooms[0], nil
	}
	return nil, nil
}
func (r *memRoomRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Room, error) {
	return r.store.rooms, nil
}
func (r *memRoomRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.rooms)), nil
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if len(r.store.users) > 0 {
		return r.store.users[0], nil
	}
	return nil, nil
}
func (r *memUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.store.users, nil
}
func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

type memEmbeddingRepo struct{ store *memStore }

func (r *memEmbeddingRepo) Upsert(ctx context.Context, e *entity.EntityEmbedding) error {
	r.store.embeddings[embKey(e.EntityType, e.EntityId)] = e
	return nil
}
func (r *memEmbeddingRepo) DeleteByEntity(ctx context.Context, entityType string, entityId uuid.UUID) error {
	delete(r.store.embeddings, embKey(entityType, entityId))
	return nil
}
func (r *memEmbeddingRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.store.embeddings)), nil
}
func (r *memEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*entity.ScoredEntityEmbedding, error) {
	return nil, nil
}

type memStatusRepo struct{ store *memStore }

func (r *memStatusRepo) Get(ctx context.Context, key string) (*entity.IndexStatus, error) {
	value, ok := r.store.status[key]
	if !ok {
		return nil, nil
	}
	return &entity.IndexStatus{Key: key, Value: value, UpdatedAt: time.Now()}, nil
}
func (r *memStatusRepo) Set(ctx context.Context, key, value string) error {
	r.store.status[key] = value
	return nil
}

func newTestIndexer(store *memStore) *Indexer {
	return NewIndexer(&memFactory{store}, embedding.NewHashProvider(), "hash", log.New(io.Discard, "", 0))
}

func TestEnsureBuiltCreatesIndexAndMarker(t *testing.T) {
	store := newMemStore()
	roomId := uuid.New()
	store.rooms = []*entity.Room{{Id: roomId, Name: "A1-101", Building: "Nhà A"}}
	store.assets = []*entity.Asset{{Id: uuid.New(), Code: "AB123", Name: "Máy chiếu", Year: 2020, Quantity: 2, RoomId: &roomId}}
	store.users = []*entity.User{{Id: uuid.New(), FullName: "Nguyễn Văn A", Role: "manager"}}

	ix := newTestIndexer(store)
	if err := ix.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.embeddings) != 3 {
		t.Errorf("expected 3 embedding records, got %d", len(store.embeddings))
	}
	if store.status[MarkerKey] != "v1/hash" {
		t.Errorf("expected marker v1/hash, got %q", store.status[MarkerKey])
	}
	if !ix.Ready() {
		t.Error("expected indexer to report ready")
	}
}

func TestEnsureBuiltSkipsWhenMarkerMatches(t *testing.T) {
	store := newMemStore()
	store.assets = []*entity.Asset{{Id: uuid.New(), Code: "AB123", Name: "Máy chiếu"}}
	store.status[MarkerKey] = "v1/hash"

	ix := newTestIndexer(store)
	if err := ix.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A matching marker means no rebuild, so no embeddings were written.
	if len(store.embeddings) != 0 {
		t.Errorf("expected no rebuild, got %d embedding writes", len(store.embeddings))
	}
	if !ix.Ready() {
		t.Error("expected indexer to report ready")
	}
}

func TestEnsureBuiltRebuildsOnStaleMarker(t *testing.T) {
	store := newMemStore()
	store.assets = []*entity.Asset{{Id: uuid.New(), Code: "AB123", Name: "Máy chiếu"}}
	store.status[MarkerKey] = "v1/other-model"

	ix := newTestIndexer(store)
	if err := ix.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.embeddings) != 1 {
		t.Errorf("expected rebuild to write 1 embedding, got %d", len(store.embeddings))
	}
	if store.status[MarkerKey] != "v1/hash" {
		t.Errorf("expected marker updated to v1/hash, got %q", store.status[MarkerKey])
	}
}

func TestIndexEntityDeleteRemovesRecord(t *testing.T) {
	store := newMemStore()
	assetId := uuid.New()
	store.embeddings[embKey(constant.EntityTypeAsset, assetId)] = &entity.EntityEmbedding{
		EntityType: constant.EntityTypeAsset,
		EntityId:   assetId,
	}

	ix := newTestIndexer(store)
	if err := ix.IndexEntity(context.Background(), constant.EntityTypeAsset, assetId, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.embeddings) != 0 {
		t.Errorf("expected record removed, got %d", len(store.embeddings))
	}
}

func TestIndexEntityUpsertWritesDocument(t *testing.T) {
	store := newMemStore()
	assetId := uuid.New()
	store.assets = []*entity.Asset{{Id: assetId, Code: "AB123", Name: "Máy chiếu Epson", Year: 2021, Quantity: 1}}

	ix := newTestIndexer(store)
	if err := ix.IndexEntity(context.Background(), constant.EntityTypeAsset, assetId, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, ok := store.embeddings[embKey(constant.EntityTypeAsset, assetId)]
	if !ok {
		t.Fatal("expected an embedding record")
	}
	if rec.Document == "" || len(rec.Embedding) != embedding.Dimensions {
		t.Errorf("unexpected record: document=%q dims=%d", rec.Document, len(rec.Embedding))
	}
}
