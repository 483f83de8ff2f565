package bootstrap

import (
	"context"
	"log"

	"smartdraft-be/internal/config"
	"smartdraft-be/internal/controller"
	"smartdraft-be/internal/pkg/logger"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/internal/repository/implementation"
	"smartdraft-be/internal/repository/redisstore"
	"smartdraft-be/internal/service"
	"smartdraft-be/pkg/cache"
	"smartdraft-be/pkg/embedding"
	"smartdraft-be/pkg/llm/factory"
	pgvretrieval "smartdraft-be/pkg/retrieval/pgvector"
	"smartdraft-be/pkg/sysmon"

	pktNats "smartdraft-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"smartdraft-be/pkg/resilience"
)

const sessionEditedTopic = "SESSION_EDITED"

type Container struct {
	// Controllers
	DraftController   controller.IDraftController
	SessionController controller.ISessionController
	SystemController  controller.ISystemController

	// Background Services (Exposed for main.go to run)
	AutosaveService service.IAutosaveService

	// Shared facades main.go needs for shutdown
	Logger  logger.ILogger
	NatsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External collaborators
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)

	llmProvider, err := factory.NewGenerator(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS is optional: without a broker configured the publisher stays nil
	// and event publication becomes a no-op.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 4. Session store backend
	var sessionStore contract.SessionStore
	if cfg.Database.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = redisstore.NewSessionStore(rdb)
		log.Printf("[INFO] Using session backend: REDIS")
	} else {
		sessionStore = implementation.NewSessionStore(db)
		log.Printf("[INFO] Using session backend: POSTGRES")
	}

	// 5. Caches + monitor
	tiers := cache.NewMultiTier(
		cache.TierConfig{MaxEntries: cfg.Cache.EmbeddingEntries, TTL: cfg.Cache.EmbeddingTTL},
		cache.TierConfig{MaxEntries: cfg.Cache.ResultEntries, TTL: cfg.Cache.ResultTTL},
		cache.TierConfig{MaxEntries: cfg.Cache.SessionEntries, TTL: cfg.Cache.SessionTTL},
	)
	monitor := sysmon.NewMonitor(sysmon.DefaultProfiles())

	// 6. Retrieval
	corpusRepo := implementation.NewCorpusRepository(db)
	retriever := pgvretrieval.NewRetriever(embeddingProvider, corpusRepo, tiers)

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, sessionEditedTopic)
	autosaveService := service.NewAutosaveService(
		pubSub,
		sessionEditedTopic,
		sessionStore,
		tiers,
		sysLogger,
		cfg.Autosave.QuietWindow,
		cfg.Autosave.MinQuiet,
	)

	draftService := service.NewDraftService(
		retriever,
		llmProvider,
		monitor,
		tiers,
		sessionStore,
		natsPub,
		sysLogger,
		service.DraftServiceConfig{
			DefaultModel: cfg.Ai.LLMModel,
			Temperature:  cfg.Ai.Temperature,
			MaxTokens:    cfg.Ai.MaxTokens,
			RetrievalPolicy: resilience.Policy{
				MaxRetries: cfg.Resilience.MaxRetries,
				BaseDelay:  cfg.Resilience.BaseDelay,
				Timeout:    cfg.Resilience.RetrievalTimeout,
			},
			GenerationPolicy: resilience.Policy{
				MaxRetries: cfg.Resilience.MaxRetries,
				BaseDelay:  cfg.Resilience.BaseDelay,
				Timeout:    cfg.Resilience.GenerationTimeout,
			},
		},
	)
	sessionService := service.NewSessionService(sessionStore, tiers, publisherService, sysLogger)
	systemService := service.NewSystemService(monitor, tiers, natsPub, sysLogger, cfg.Ai.LLMModel)

	// 8. Controllers
	return &Container{
		DraftController:   controller.NewDraftController(draftService),
		SessionController: controller.NewSessionController(sessionService),
		SystemController:  controller.NewSystemController(systemService),
		AutosaveService:   autosaveService,
		Logger:            sysLogger,
		NatsPub:           natsPub,
	}
}
