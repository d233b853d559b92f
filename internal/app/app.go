package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lunoai/luno/internal/config"
	"github.com/lunoai/luno/internal/core/chunker"
	"github.com/lunoai/luno/internal/core/index"
	"github.com/lunoai/luno/internal/core/ingest"
	"github.com/lunoai/luno/internal/core/llm"
	"github.com/lunoai/luno/internal/core/qa"
	"github.com/lunoai/luno/internal/core/retrieval"
	"github.com/lunoai/luno/internal/services"
)

// App owns every long-lived component and the order they shut down in.
type App struct {
	Documents *services.DocumentService
	Chat      *services.ChatService
	Server    *Server

	db       *sql.DB
	embedder *llm.GeminiEmbedder
	llm      *llm.GeminiLLM
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}

	var (
		db  *sql.DB
		idx index.VectorIndex
	)
	switch cfg.VectorBackend {
	case "memory":
		idx = index.NewMemoryIndex(embedder)
		log.Println("vector index: in-memory (contents do not survive a restart)")
	default:
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(appCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		idx, err = index.NewPgIndex(db, embedder, cfg.CollectionName, cfg.EmbedDim)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("init vector index: %w", err)
		}
		log.Printf("vector index: pgvector collection %q", cfg.CollectionName)
	}

	strategy, err := retrieval.ParseStrategy(cfg.RetrievalStrategy)
	if err != nil {
		return nil, err
	}

	pipeline := ingest.New(chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), cfg.MaxFileSizeBytes())
	retriever := retrieval.New(idx, strategy, cfg.TopK, cfg.MMRFetchK, cfg.MMRLambda)
	synthesizer := qa.NewSynthesizer(retriever, llmProvider)

	docs := services.NewDocumentService(pipeline, idx)
	chat := services.NewChatService(synthesizer)

	a := &App{
		Documents: docs,
		Chat:      chat,
		db:        db,
		embedder:  embedder,
		llm:       llmProvider,
	}
	a.Server = NewServer(cfg, docs, chat)
	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.llm != nil {
		_ = a.llm.Close()
	}
}
