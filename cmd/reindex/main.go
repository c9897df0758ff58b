package main

import (
	"context"
	"log"

	"inventory-assistant-be/internal/config"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/pkg/database"
	"inventory-assistant-be/pkg/embedding"
	"inventory-assistant-be/pkg/rag/index"
)

// Forces a full rebuild of the entity embedding index, regardless of the
// marker row. Run after bulk imports or when switching embedding models.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var provider embedding.EmbeddingProvider
	modelName := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "hash" {
		provider = embedding.NewHashProvider()
		modelName = "hash"
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	indexer := index.NewIndexer(uowFactory, provider, modelName, log.Default())

	log.Printf("Rebuilding entity index with model %q...", modelName)
	if err := indexer.Rebuild(context.Background()); err != nil {
		log.Fatalf("Error: Rebuild failed: %v", err)
	}
	log.Println("✅ Success: entity index rebuilt.")
}
