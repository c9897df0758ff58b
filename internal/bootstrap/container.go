package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"inventory-assistant-be/internal/config"
	"inventory-assistant-be/internal/controller"
	"inventory-assistant-be/internal/pkg/logger"
	"inventory-assistant-be/internal/repository/implementation"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/internal/service"
	"inventory-assistant-be/pkg/embedding"
	"inventory-assistant-be/pkg/llm/factory"
	pktNats "inventory-assistant-be/pkg/nats"
	"inventory-assistant-be/pkg/rag/index"
	"inventory-assistant-be/pkg/rag/retrieval"
	"inventory-assistant-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// EmbedEntityTopic is the in-process topic carrying entity-changed messages
// from the CRUD surface into the indexer.
const EmbedEntityTopic = "EMBED_ENTITY"

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	IndexController controller.IIndexController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Indexer is exposed so cmd/reindex can force a rebuild.
	Indexer *index.Indexer

	SysLogger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := initPipelineLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "hash" {
		embeddingProvider = embedding.NewHashProvider()
		log.Printf("[INFO] Using Embedding Provider: HASH (offline)")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 5. Retrieval Pipeline
	embeddingModelName := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "hash" {
		embeddingModelName = "hash"
	}
	indexer := index.NewIndexer(uowFactory, embeddingProvider, embeddingModelName, pipelineLogger)

	// Non-transactional read repositories for the structured path.
	assetRepo := implementation.NewAssetRepository(db)
	roomRepo := implementation.NewRoomRepository(db)
	embeddingRepo := implementation.NewEntityEmbeddingRepository(db)

	structuredRetriever := retrieval.NewStructuredRetriever(assetRepo, roomRepo, cfg.Chat.StructuredCap, sysLogger)
	vectorRetriever := search.NewVectorRetriever(embeddingProvider, embeddingRepo, cfg.Chat.VectorTopK, sysLogger)

	// 6. Services
	consumerService := service.NewConsumerService(pubSub, EmbedEntityTopic, indexer)
	publisherService := service.NewPublisherService(EmbedEntityTopic, pubSub)

	chatService := service.NewChatService(
		uowFactory,
		structuredRetriever,
		vectorRetriever,
		llmProvider,
		natsPub,
		cfg.Chat,
		pipelineLogger,
	)

	// Build the entity index in the background so startup never blocks on
	// the embedding provider.
	go func() {
		if err := indexer.EnsureBuilt(context.Background()); err != nil {
			log.Printf("[WARN] Entity index build failed: %v", err)
		}
	}()

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		IndexController: controller.NewIndexController(publisherService),
		ConsumerService: consumerService,
		Indexer:         indexer,
		SysLogger:       sysLogger,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
