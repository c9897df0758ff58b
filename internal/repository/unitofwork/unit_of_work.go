package unitofwork

import (
	"context"

	"inventory-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AssetRepository() contract.AssetRepository
	RoomRepository() contract.RoomRepository
	UserRepository() contract.UserRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository

	EntityEmbeddingRepository() contract.EntityEmbeddingRepository
	IndexStatusRepository() contract.IndexStatusRepository
}
