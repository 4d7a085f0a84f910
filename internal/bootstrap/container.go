package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/controller"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/pkg/events"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/llm/factory"

	pktNats "ai-support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	EventWriterService service.IEventWriterService

	// System logger, exposed for graceful shutdown Sync
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmBaseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Knowledge Base
	// A missing corpus directory is not fatal: knowledge_search just
	// returns empty results until documents are added.
	kbLogger := log.New(os.Stdout, "[KB] ", log.LstdFlags)
	chunks, err := knowledge.LoadDir(cfg.Knowledge.Dir)
	if err != nil {
		log.Printf("[WARN] Failed to load knowledge base from %s: %v", cfg.Knowledge.Dir, err)
	}
	engine := knowledge.NewEngine(chunks, kbLogger)
	log.Printf("[INFO] Knowledge base loaded: %d chunks from %s", engine.Len(), cfg.Knowledge.Dir)

	// 5. In-Memory Dialogue State
	stateRepo := memory.NewStateRepository()

	// 6. NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}
	if natsSub != nil {
		// Audit mirror of the handoff bus; downstream agent tooling owns
		// the real consumption.
		subErr := natsSub.Subscribe("events."+constant.EventChatEscalation, "chat-escalation-audit",
			func(ctx context.Context, event events.Event) error {
				sysLogger.Info("Escalation", "Human handoff requested", event.Payload())
				return nil
			})
		if subErr != nil {
			log.Printf("[WARN] Failed to subscribe to escalation events: %v", subErr)
		}
	}

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, constant.TurnEventTopicName)
	eventWriterService := service.NewEventWriterService(pubSub, constant.TurnEventTopicName, uowFactory)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		engine,
		stateRepo,
		publisherService,
		natsPub,
	)

	// 8. Controllers
	chatController := controller.NewChatController(chatService, sysLogger)

	return &Container{
		ChatController:     chatController,
		EventWriterService: eventWriterService,
		Logger:             sysLogger,
	}
}
