package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gsu-chatbot-be/internal/config"
	"gsu-chatbot-be/internal/controller"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/internal/pkg/serverutils"
	"gsu-chatbot-be/internal/repository/memory"
	"gsu-chatbot-be/internal/repository/rediscache"
	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/internal/service"
	"gsu-chatbot-be/pkg/embedding"
	"gsu-chatbot-be/pkg/events"
	"gsu-chatbot-be/pkg/export"
	"gsu-chatbot-be/pkg/llm/factory"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/retrieval"
	"gsu-chatbot-be/pkg/schedule"
	"gsu-chatbot-be/pkg/storage"
	"gsu-chatbot-be/pkg/transcript"

	pktNats "gsu-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const module = "BOOTSTRAP"

type Container struct {
	// Controllers
	ChatbotController  controller.IChatbotController
	ScheduleController controller.IScheduleController
	CatalogController  controller.ICatalogController
	FileController     controller.IFileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	Logger logger.ILogger

	closers []func()
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	aiTimeout := time.Duration(cfg.Ai.TimeoutSeconds) * time.Second

	// 2. Event Bus (catalog ingestion queue)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. AI Providers
	llmBaseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.LLMProvider == "ollama" && llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Type:    cfg.Ai.LLMProvider,
		Model:   cfg.Ai.LLMModel,
		BaseURL: llmBaseURL,
		APIKey:  cfg.Keys.OpenAI,
		Timeout: aiTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info(module, "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	embeddingModel, embeddingBaseURL := cfg.Ai.EmbeddingModel, cfg.Ai.LLMBaseURL
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingModel, embeddingBaseURL = cfg.Ai.OllamaModel, cfg.Ai.OllamaBaseURL
	}
	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		embeddingModel,
		embeddingBaseURL,
		cfg.Keys.OpenAI,
		aiTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	sysLogger.Info(module, "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    embeddingModel,
	})

	// 4. Retrieval
	queryCache := retrieval.NewFIFOCache(
		time.Duration(cfg.Pipeline.QueryCacheTTLSeconds)*time.Second,
		cfg.Pipeline.QueryCacheSize,
	)
	contexts := retrieval.NewProvider(embeddingProvider, service.NewCatalogIndex(uowFactory), queryCache, sysLogger)

	// 5. Infrastructure
	stateTTL := time.Duration(cfg.Pipeline.StateTTLMinutes) * time.Minute
	localState := memory.NewPipelineStateCache(stateTTL)
	sharedState := newSharedStateCache(cfg, stateTTL, sysLogger, c)

	var pipelinePublisher events.PipelinePublisher = events.NopPipelinePublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(module, "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
	} else {
		pipelinePublisher = events.NewBusPublisher(natsPub, sysLogger)
		c.closers = append(c.closers, natsPub.Close)
	}

	var auditSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(module, "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
	} else {
		auditSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	files := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.Bucket, cfg.App.BaseURL, cfg.App.JwtSecret)

	// 6. Pipeline
	store := pipeline.NewStore(localState, sharedState, service.NewPipelineDurable(uowFactory), sysLogger)
	generator := schedule.NewGenerator(llmProvider, cfg.Ai.LLMModel, cfg.Ai.ExtractionModel, sysLogger)
	schedulePipeline := pipeline.New(store, generator, contexts, pipelinePublisher, sysLogger, pipeline.Config{
		GenerationTimeout: time.Duration(cfg.Pipeline.GenerationTimeoutSeconds) * time.Second,
		MajorContextTopK:  cfg.Pipeline.MajorContextTopK,
	})

	// 7. Services
	transcriptService := service.NewTranscriptService(
		uowFactory,
		schedulePipeline,
		files,
		transcript.NewExtractor(sysLogger),
		transcript.NewStructuredExtractor(llmProvider, cfg.Ai.ExtractionModel),
		sysLogger,
		time.Duration(cfg.Storage.SignedURLTTLHours)*time.Hour,
	)
	scheduleService := service.NewScheduleService(schedulePipeline, transcriptService, export.NewExporter(), sysLogger)
	chatbotService := service.NewChatbotService(
		schedulePipeline,
		llmProvider,
		contexts,
		transcriptService,
		sysLogger,
		service.ChatConfig{
			Provider: cfg.Ai.LLMProvider,
			Model:    cfg.Ai.LLMModel,
		},
	)

	publisherService := service.NewPublisherService(pubSub, cfg.Keys.IngestTopic)
	catalogService := service.NewCatalogService(publisherService, contexts, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)
	auditLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "audit.log"))
	c.closers = append(c.closers, func() { _ = auditLogger.Sync() })
	c.AuditService = service.NewAuditService(auditSubscriber, auditLogger)

	var adminAuth fiber.Handler
	if cfg.App.JwtSecret != "" {
		adminAuth = serverutils.NewJwtMiddleware(cfg.App.JwtSecret, true)
	} else {
		sysLogger.Warn(module, "JWT_SECRET not set, catalog ingestion is unauthenticated", nil)
	}

	// 8. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.ScheduleController = controller.NewScheduleController(scheduleService, transcriptService)
	c.CatalogController = controller.NewCatalogController(catalogService, adminAuth)
	c.FileController = controller.NewFileController(files, files.Bucket())

	return c, nil
}

// newSharedStateCache returns the Redis tier for pipeline state, or nil when
// the driver is not redis or Redis cannot be reached at startup.
func newSharedStateCache(cfg *config.Config, ttl time.Duration, sysLogger logger.ILogger, c *Container) pipeline.Cache {
	if cfg.Pipeline.CacheDriver != "redis" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn(module, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		sysLogger.Warn(module, "Failed to connect to Redis, using in-memory pipeline state", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rediscache.NewPipelineStateCache(rdb, ttl, sysLogger)
}
