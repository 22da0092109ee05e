// ABOUTME: Shared application stack builder for CLI commands
// ABOUTME: Wires config, storage, OpenAI client, blobs, and the pipeline
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/tessellate-systems/lattice/internal/blob"
	"github.com/tessellate-systems/lattice/internal/config"
	"github.com/tessellate-systems/lattice/internal/core"
	"github.com/tessellate-systems/lattice/internal/llm"
	"github.com/tessellate-systems/lattice/internal/media"
	"github.com/tessellate-systems/lattice/internal/normalizer"
	"github.com/tessellate-systems/lattice/internal/projector"
	"github.com/tessellate-systems/lattice/internal/storage/sqlite"
)

// app is the assembled service stack shared by the CLI commands
type app struct {
	cfg         *config.Config
	store       *sqlite.Storage
	blobs       *blob.Store
	pipeline    *core.Pipeline
	collections *core.CollectionService
}

// buildApp loads configuration and wires the full ingestion and read stack.
// The caller owns the returned app and must Close it.
func buildApp() (*app, error) {
	// Load .env for API keys
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	store, err := sqlite.NewStorageWithPath(cfg.DBPath, cfg.VectorDimension)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:          cfg.OpenAIKey,
		CaptionModel:    cfg.ChatModel,
		TranscribeModel: cfg.TranscribeModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		Dimension:       cfg.VectorDimension,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	blobs, err := blob.NewStore(cfg.DataDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initializing blob store: %w", err)
	}

	titles := media.NewTitleClient(cfg.OEmbedTimeout)
	norm := normalizer.New(client, client, titles)
	pipeline := core.NewPipeline(norm, client, store, blobs)
	collections := core.NewCollectionService(store, projector.New(cfg.VectorDimension))

	return &app{
		cfg:         cfg,
		store:       store,
		blobs:       blobs,
		pipeline:    pipeline,
		collections: collections,
	}, nil
}

// Close releases the app's resources
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("Warning: closing storage: %v", err)
	}
}
