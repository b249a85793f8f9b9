package bootstrap

import (
	"context"
	"log"

	"studybuddy-be/internal/config"
	"studybuddy-be/internal/controller"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/gormstore"
	"studybuddy-be/internal/repository/implementation"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/internal/repository/redisstore"
	"studybuddy-be/internal/service"
	"studybuddy-be/internal/websocket"
	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/capability/ollamaprov"
	"studybuddy-be/pkg/database"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/llm/factory"
	pktNats "studybuddy-be/pkg/nats"
	"studybuddy-be/pkg/study/analyzer"
	"studybuddy-be/pkg/study/notes"
	"studybuddy-be/pkg/study/pack"
	"studybuddy-be/pkg/study/quiz"
)

type Container struct {
	// Controllers
	NoteController       controller.INoteController
	QuizController       controller.IQuizController
	StudyPackController  controller.IStudyPackController
	AnalyzerController   controller.IAnalyzerController
	CapabilityController controller.ICapabilityController

	// WebSockets
	WebSocketHub *websocket.Hub

	// Event plumbing, exposed for main.go to run and shut down.
	EventBus      *events.Bus
	NatsPublisher *pktNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 1. Event Bus
	bus := events.NewBus()

	// 2. Capability layer
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	registry := capability.NewRegistry()
	ollamaprov.RegisterAll(registry, llmProvider, cfg.Ai.Model, cfg.Ai.VisionModel)

	manager := capability.NewManager(registry, sysLogger)
	manager.SetLanguagePreferences(capability.LanguagePreferences{
		Input:  []string{cfg.Study.InputLanguage},
		Output: cfg.Study.OutputLanguage,
	})

	// 3. History store backend
	history := implementation.NewHistoryRepository(newDocumentStore(cfg))

	// 4. Study pipeline
	noteProcessor := notes.NewProcessor(manager, sysLogger)
	quizGenerator := quiz.NewGenerator(manager, sysLogger)
	packBuilder := pack.NewBuilder(noteProcessor, quizGenerator, manager, sysLogger)
	pageAnalyzer := analyzer.NewAnalyzer(manager, sysLogger)

	// 5. Services
	noteService := service.NewNoteService(noteProcessor, history, bus, sysLogger)
	quizService := service.NewQuizService(quizGenerator, history, bus, sysLogger)
	packService := service.NewStudyPackService(packBuilder, history, bus, sysLogger)
	analyzerService := service.NewAnalyzerService(pageAnalyzer, sysLogger)

	// 6. WebSocket hub, fed from the bus
	hub := websocket.NewHub(sysLogger)
	go hub.Run()
	go hub.ConsumeBus(context.Background(), bus)

	// 7. Optional NATS mirror
	var natsPub *pktNats.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			go func() {
				if err := pktNats.Bridge(context.Background(), bus, natsPub); err != nil {
					log.Printf("[WARN] NATS bridge stopped: %v", err)
				}
			}()
		}
	}

	return &Container{
		NoteController:       controller.NewNoteController(noteService),
		QuizController:       controller.NewQuizController(quizService),
		StudyPackController:  controller.NewStudyPackController(packService),
		AnalyzerController:   controller.NewAnalyzerController(analyzerService),
		CapabilityController: controller.NewCapabilityController(registry),
		WebSocketHub:         hub,
		EventBus:             bus,
		NatsPublisher:        natsPub,
	}
}

// newDocumentStore picks the history backend from config. Backends that
// need external services fall back to memory when they cannot connect.
func newDocumentStore(cfg *config.Config) contract.DocumentStore {
	switch cfg.Storage.Backend {
	case "redis":
		store, err := redisstore.NewDocumentStore(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Redis store unavailable, using memory: %v", err)
			return memory.NewDocumentStore()
		}
		log.Println("[INFO] Using Redis history store")
		return store
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Storage.Connection)
		if err != nil {
			log.Printf("[WARN] Postgres unavailable, using memory: %v", err)
			return memory.NewDocumentStore()
		}
		store, err := gormstore.NewDocumentStore(db)
		if err != nil {
			log.Printf("[WARN] Postgres migration failed, using memory: %v", err)
			return memory.NewDocumentStore()
		}
		log.Println("[INFO] Using Postgres history store")
		return store
	default:
		log.Println("[INFO] Using in-memory history store")
		return memory.NewDocumentStore()
	}
}
