package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unirecords/archive-console/internal/config"
	"github.com/unirecords/archive-console/internal/core/ports"
	"github.com/unirecords/archive-console/internal/core/usecase"
	"github.com/unirecords/archive-console/internal/infrastructure/graphmirror"
	neo4jmirror "github.com/unirecords/archive-console/internal/infrastructure/graphmirror/neo4j"
	"github.com/unirecords/archive-console/internal/infrastructure/inspect"
	"github.com/unirecords/archive-console/internal/infrastructure/llm/gemini"
	"github.com/unirecords/archive-console/internal/infrastructure/queue/nats"
	"github.com/unirecords/archive-console/internal/infrastructure/repository/postgres"
	"github.com/unirecords/archive-console/internal/infrastructure/resilience"
	"github.com/unirecords/archive-console/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository
	Users ports.UserRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	ReviewUC  ports.ReviewService
	BrowseUC  ports.ArchiveBrowser
	ReaderUC  ports.DocumentReader

	extractUC *usecase.ExtractUseCase
	closeFn   func()
}

// ObserveExtraction attaches the worker's outcome observer to the extraction
// pipeline. Call before subscribing to jobs.
func (a *App) ObserveExtraction(observer ports.ExtractionObserver) {
	if a.extractUC != nil {
		a.extractUC.SetObserver(observer)
	}
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure document schema: %w", err)
	}
	users := postgres.NewUserRepository(db)
	if err := users.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure user schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	parser, err := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.Options{
		RequestTimeout:     time.Duration(cfg.GeminiTimeoutSeconds) * time.Second,
		RateLimitPerSecond: cfg.GeminiRateLimitRPS,
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	var mirror ports.GraphMirror = graphmirror.Noop{}
	if cfg.Neo4jURI != "" {
		n4j, err := neo4jmirror.New(ctx, cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword)
		if err != nil {
			// Mirroring is an optional extra; a missing graph database must not
			// keep the archive from starting.
			slog.Warn("graph_mirror_unavailable", "uri", cfg.Neo4jURI, "error", err)
		} else {
			mirror = n4j
		}
	}

	inspector := inspect.New()

	ingestUC := usecase.NewIngestUseCase(repo, storage, queue, cfg.Extensions())
	processUC := usecase.NewExtractUseCase(repo, storage, parser, inspector)
	reviewUC := usecase.NewReviewUseCase(repo, queue, mirror)
	browseUC := usecase.NewBrowseUseCase(repo)
	readerUC := usecase.NewReaderUseCase(repo)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,
		Users:  users,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		ReviewUC:  reviewUC,
		BrowseUC:  browseUC,
		ReaderUC:  readerUC,

		extractUC: processUC,

		closeFn: func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mirror.Close(closeCtx)
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
