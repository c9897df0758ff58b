package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/specification"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.AssetRepository())
	assert.NotNil(t, uow.ChatSessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Asset Repository", func(t *testing.T) {
		count, err := uow.AssetRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Asset count: %d", count)
	})

	t.Run("Check Entity Embedding Repository", func(t *testing.T) {
		count, err := uow.EntityEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("EntityEmbedding count: %d", count)
	})

	t.Run("Check Transactional Chat Write", func(t *testing.T) {
		userId := uuid.New()
		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Integration session",
			IsActive:  true,
			CreatedAt: time.Now(),
		}
		message := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          "user",
			Content:       "integration test message",
			CreatedAt:     time.Now(),
		}

		txUow := uowFactory.NewUnitOfWork(context.Background())
		assert.NoError(t, txUow.Begin(context.Background()))
		assert.NoError(t, txUow.ChatSessionRepository().Create(context.Background(), session))
		assert.NoError(t, txUow.ChatMessageRepository().Create(context.Background(), message))
		assert.NoError(t, txUow.Commit())

		found, err := uow.ChatSessionRepository().FindOne(context.Background(),
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		messages, err := uow.ChatMessageRepository().FindAll(context.Background(),
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		assert.NoError(t, err)
		assert.Len(t, messages, 1)

		// Cleanup
		cleanup := uowFactory.NewUnitOfWork(context.Background())
		assert.NoError(t, cleanup.Begin(context.Background()))
		assert.NoError(t, cleanup.ChatMessageRepository().DeleteByChatSessionId(context.Background(), session.Id))
		assert.NoError(t, cleanup.ChatSessionRepository().Delete(context.Background(), session.Id))
		assert.NoError(t, cleanup.Commit())
	})

	t.Run("Check Index Status Marker", func(t *testing.T) {
		key := "integration_test_marker"
		assert.NoError(t, uow.IndexStatusRepository().Set(context.Background(), key, "v1/test"))

		status, err := uow.IndexStatusRepository().Get(context.Background(), key)
		assert.NoError(t, err)
		if assert.NotNil(t, status) {
			assert.Equal(t, "v1/test", status.Value)
		}
	})
}
