package bootstrap

import (
	"context"
	"log"

	"intelidoc-rag-be/internal/config"
	"intelidoc-rag-be/internal/controller"
	"intelidoc-rag-be/internal/pkg/logger"
	"intelidoc-rag-be/internal/repository/implementation"
	"intelidoc-rag-be/internal/service"
	"intelidoc-rag-be/internal/websocket"
	"intelidoc-rag-be/pkg/docling"
	"intelidoc-rag-be/pkg/embedding"
	"intelidoc-rag-be/pkg/llm/factory"
	pktNats "intelidoc-rag-be/pkg/nats"
	"intelidoc-rag-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const ingestTopic = "document.ingest"

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	QueryController    controller.IQueryController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	docRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db, cfg.Ai.EmbeddingDimension)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Providers are stateless HTTP clients; one shared instance serves the
	// whole process.
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		provider, err := embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimension)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
		}
		embeddingProvider = provider
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimension,
			cfg.Ai.EmbeddingBatchSize,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, llmProvider.ModelName())

	doclingClient := docling.NewClient(cfg.Docling.Host)

	// 3.5 Infrastructure
	// NATS (optional)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis (optional, cross-instance WebSocket relay)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(ingestTopic, pubSub)
	ingestService := service.NewIngestService(
		pubSub,
		ingestTopic,
		docRepo,
		chunkRepo,
		doclingClient,
		embeddingProvider,
		wsHub,
		natsPub,
		cfg.Rag.ChunkSize,
		cfg.Rag.ChunkOverlap,
		sysLogger,
	)

	documentService := service.NewDocumentService(docRepo, chunkRepo, publisherService, cfg.App.UploadDir, sysLogger)

	orchestrator := rag.NewOrchestrator(
		embeddingProvider,
		llmProvider,
		cfg.Ai.LLMProvider,
		chunkRepo,
		cfg.Rag.TopKResults,
		sysLogger,
	)
	queryService := service.NewQueryService(orchestrator, doclingClient, db, cfg.Ai.EmbeddingModel)

	// 5. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		QueryController:    controller.NewQueryController(queryService),
		IngestService:      ingestService,
		WebSocketHub:       wsHub,
		Logger:             sysLogger,
	}
}
