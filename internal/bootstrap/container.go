package bootstrap

import (
	"log"

	"thinkboard-be/internal/config"
	"thinkboard-be/internal/controller"
	"thinkboard-be/internal/pkg/logger"
	"thinkboard-be/internal/repository/archive"
	"thinkboard-be/internal/repository/memory"
	"thinkboard-be/internal/service"
	"thinkboard-be/pkg/agent/loop"
	"thinkboard-be/pkg/llm/factory"

	pktNats "thinkboard-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController controller.IAgentController

	// Infrastructure (exposed for shutdown)
	NatsPublisher *pktNats.Publisher
	RedisClient   *redis.Client
}

// NewContainer wires the dependency graph. db may be nil: the turn
// archive is optional and everything else runs in memory.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err != nil {
		log.Printf("[WARN] Invalid Redis URL, rate limiting disabled: %v", err)
	} else {
		redisClient = redis.NewClient(opts)
	}

	// 4. Repositories
	traceRepo := memory.NewTraceRepository()

	var archiveRepo *archive.TurnArchiveRepository
	if db != nil {
		archiveRepo = archive.NewTurnArchiveRepository(db)
		if err := archiveRepo.Migrate(); err != nil {
			log.Printf("[WARN] Failed to migrate turn archive, archiving disabled: %v", err)
			archiveRepo = nil
		}
	} else {
		log.Println("[INFO] No database configured, turn archiving disabled")
	}

	// 5. Services
	loopConfig := loop.Config{
		MaxToolCalls:       cfg.Agent.MaxToolCalls,
		HistoryTokenBudget: cfg.Agent.HistoryTokenBudget,
	}
	agentService := service.NewAgentService(llmProvider, loopConfig, traceRepo, archiveRepo, natsPub, sysLogger)

	// 6. Controllers
	agentController := controller.NewAgentController(agentService, redisClient, cfg.Agent.RateLimitPerMinute)

	return &Container{
		AgentController: agentController,
		NatsPublisher:   natsPub,
		RedisClient:     redisClient,
	}
}

// Close releases infrastructure connections.
func (c *Container) Close() {
	if c.NatsPublisher != nil {
		c.NatsPublisher.Close()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
}
